package review

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/review"
)

const tracerName = "bookreview/application/review"

// ReviewerDTO 书评作者
type ReviewerDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ReviewDTO 书评响应DTO
type ReviewDTO struct {
	ID        string      `json:"id"`
	BookID    string      `json:"bookId"`
	Text      string      `json:"review_text"`
	Rating    int         `json:"rating"`
	Reviewer  ReviewerDTO `json:"reviewer"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ReviewCreatedEvent review.created事件载荷
type ReviewCreatedEvent struct {
	ReviewID   string `json:"review_id"`
	BookID     string `json:"book_id"`
	ReviewerID string `json:"reviewer_id"`
	Rating     int    `json:"rating"`
}

func toReviewDTO(r *review.Review, username string) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		BookID:    r.BookID,
		Text:      r.Text,
		Rating:    r.Rating,
		Reviewer:  ReviewerDTO{ID: r.ReviewerID, Username: username},
		CreatedAt: r.CreatedAt,
	}
}
