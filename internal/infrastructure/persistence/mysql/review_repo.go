package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// reviewRepository 书评仓储实现(MySQL)
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建书评(单条INSERT,原子)
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := toReviewModel(rv)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.WrapStore(err, "创建书评失败")
	}
	rv.CreatedAt = model.CreatedAt
	return nil
}

// ListByBook 查询图书的全部书评(按创建顺序)
func (r *reviewRepository) ListByBook(ctx context.Context, bookID string) ([]*review.Review, error) {
	var models []ReviewModel
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询书评失败")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, nil
}

// tallyRow 聚合查询结果行
type tallyRow struct {
	BookID string
	Total  int64
	Cnt    int64
}

// RatingTallies 按图书分组统计评分总和与数量
// SQL: SELECT book_id, SUM(rating) AS total, COUNT(*) AS cnt FROM reviews WHERE book_id IN (...) GROUP BY book_id
func (r *reviewRepository) RatingTallies(ctx context.Context, bookIDs []string) (map[string]rating.Summary, error) {
	result := make(map[string]rating.Summary, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	var rows []tallyRow
	err := r.db.WithContext(ctx).
		Model(&ReviewModel{}).
		Select("book_id, SUM(rating) AS total, COUNT(*) AS cnt").
		Where("book_id IN ?", bookIDs).
		Group("book_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "统计评分失败")
	}

	for _, row := range rows {
		result[row.BookID] = rating.Summary{Sum: row.Total, Count: row.Cnt}
	}
	return result, nil
}

func toReviewModel(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:         rv.ID,
		BookID:     rv.BookID,
		ReviewerID: rv.ReviewerID,
		ReviewText: rv.Text,
		Rating:     rv.Rating,
		CreatedAt:  rv.CreatedAt,
	}
}

func toReviewEntity(model *ReviewModel) *review.Review {
	return &review.Review{
		ID:         model.ID,
		BookID:     model.BookID,
		ReviewerID: model.ReviewerID,
		Text:       model.ReviewText,
		Rating:     model.Rating,
		CreatedAt:  model.CreatedAt,
	}
}
