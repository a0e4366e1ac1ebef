package review

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// BookFinder 校验图书是否存在(由图书仓储实现)
type BookFinder interface {
	FindByID(ctx context.Context, id string) (*book.Book, error)
}

// Service 书评领域服务
type Service interface {
	// CreateReview 发表书评
	// 业务规则:
	// - 评分是1到5之间的整数
	// - 内容去除首尾空白后不能为空,不超过5000字符
	// - 图书必须存在,否则返回book.ErrBookNotFound
	CreateReview(ctx context.Context, bookID, reviewerID string, rating int, text string) (*Review, error)

	// ListReviews 查询图书的书评(不校验图书是否存在,未知图书返回空列表)
	ListReviews(ctx context.Context, bookID string) ([]*Review, error)
}

type service struct {
	repo  Repository
	books BookFinder
}

// NewService 创建书评领域服务
func NewService(repo Repository, books BookFinder) Service {
	return &service{repo: repo, books: books}
}

// CreateReview 发表书评
func (s *service) CreateReview(ctx context.Context, bookID, reviewerID string, rating int, text string) (*Review, error) {
	// 1. 字段校验(先于存储访问)
	if err := Validate(rating, text); err != nil {
		return nil, err
	}

	// 2. 图书必须存在(防止产生悬空书评)
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	// 3. 单条写入,不更新任何缓存的聚合值
	r := NewReview(bookID, reviewerID, rating, text)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// ListReviews 查询图书的书评
func (s *service) ListReviews(ctx context.Context, bookID string) ([]*Review, error) {
	return s.repo.ListByBook(ctx, bookID)
}

// Validate 校验评分和内容
func Validate(rating int, text string) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > MaxTextLen {
		return ErrTextTooLong
	}
	return nil
}
