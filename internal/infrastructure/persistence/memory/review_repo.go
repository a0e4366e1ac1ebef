package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
)

// reviewRepository 书评仓储实现(内存)
// 按图书分组保存,切片顺序即插入顺序
type reviewRepository struct {
	mu     sync.RWMutex
	byBook map[string][]*review.Review
	now    func() time.Time
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository() review.Repository {
	return &reviewRepository{byBook: make(map[string][]*review.Review), now: time.Now}
}

// Create 创建书评
func (r *reviewRepository) Create(_ context.Context, rv *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = r.now()
	}
	cp := *rv
	r.byBook[rv.BookID] = append(r.byBook[rv.BookID], &cp)
	return nil
}

// ListByBook 查询图书的全部书评(插入顺序)
func (r *reviewRepository) ListByBook(_ context.Context, bookID string) ([]*review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.byBook[bookID]
	out := make([]*review.Review, len(src))
	for i, rv := range src {
		cp := *rv
		out[i] = &cp
	}
	return out, nil
}

// RatingTallies 按图书统计评分总和与数量
func (r *reviewRepository) RatingTallies(_ context.Context, bookIDs []string) (map[string]rating.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]rating.Summary, len(bookIDs))
	for _, id := range bookIDs {
		reviews := r.byBook[id]
		if len(reviews) == 0 {
			continue
		}
		var s rating.Summary
		for _, rv := range reviews {
			s = s.Add(rv.Rating)
		}
		result[id] = s
	}
	return result, nil
}
