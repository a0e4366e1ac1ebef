package review

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
)

// ListReviewsUseCase 书评列表用例
type ListReviewsUseCase struct {
	reviewService review.Service
	userService   user.Service
}

// NewListReviewsUseCase 创建用例
func NewListReviewsUseCase(reviewService review.Service, userService user.Service) *ListReviewsUseCase {
	return &ListReviewsUseCase{
		reviewService: reviewService,
		userService:   userService,
	}
}

// Execute 查询图书的全部书评,并批量解析作者用户名
// 找不到的作者显示为占位用户名
func (uc *ListReviewsUseCase) Execute(ctx context.Context, bookID string) ([]ReviewDTO, error) {
	// 1. 查询书评
	reviews, err := uc.reviewService.ListReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return []ReviewDTO{}, nil
	}

	// 2. 批量查询作者(去重)
	seen := make(map[string]struct{}, len(reviews))
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.ReviewerID]; ok {
			continue
		}
		seen[r.ReviewerID] = struct{}{}
		ids = append(ids, r.ReviewerID)
	}
	users, err := uc.userService.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		username := user.DeletedUsername
		if u, ok := users[r.ReviewerID]; ok {
			username = u.Username
		}
		list[i] = toReviewDTO(r, username)
	}
	return list, nil
}
