package book

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
)

const tracerName = "bookreview/application/book"

// BookDTO 图书响应DTO
// averageRating、reviewCount读时计算,平均分在这里保留一位小数
type BookDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	PublishedYear int       `json:"publishedYear"`
	Description   string    `json:"description"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int64     `json:"reviewCount"`
}

// BookCreatedEvent book.created事件载荷
type BookCreatedEvent struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Genre     string `json:"genre"`
	CreatedBy string `json:"created_by"`
}

func toBookDTO(b *book.Book, s rating.Summary) BookDTO {
	return BookDTO{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Description:   b.Description,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		AverageRating: s.Rounded(),
		ReviewCount:   s.Count,
	}
}
