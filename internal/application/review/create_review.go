package review

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// CreateReviewUseCase 发表书评用例
// 设计说明:
// 1. 只写入一条书评,不更新任何缓存的平均分(平均分读时计算)
// 2. 写入成功后发布review.created事件
type CreateReviewUseCase struct {
	reviewService review.Service
	publisher     mq.EventPublisher
}

// NewCreateReviewUseCase 创建用例
func NewCreateReviewUseCase(reviewService review.Service, publisher mq.EventPublisher) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		reviewService: reviewService,
		publisher:     publisher,
	}
}

// CreateReviewRequest 发表书评请求DTO
type CreateReviewRequest struct {
	BookID           string
	Rating           int
	Text             string
	ReviewerID       string // 从认证中间件获取
	ReviewerUsername string
}

// Execute 执行发表书评用例
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (dto *ReviewDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateReview")
	span.SetAttributes(attribute.String("book.id", req.BookID))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		metrics.IncCounterVec(metrics.ReviewsCreatedTotal, map[string]string{"result": metrics.Result(err)})
	}()

	r, err := uc.reviewService.CreateReview(ctx, req.BookID, req.ReviewerID, req.Rating, req.Text)
	if err != nil {
		return nil, err
	}

	mq.PublishBestEffort(ctx, uc.publisher, mq.RoutingKeyReviewCreated, ReviewCreatedEvent{
		ReviewID:   r.ID,
		BookID:     r.BookID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
	})

	result := toReviewDTO(r, req.ReviewerUsername)
	return &result, nil
}
