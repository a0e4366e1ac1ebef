package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/mq"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排,业务规则校验由领域服务负责
// 2. 新书没有书评,直接返回averageRating=0、reviewCount=0,不调用评分聚合器
// 3. 写入成功后发布book.created事件(失败只记日志)
type CreateBookUseCase struct {
	bookService book.Service
	publisher   mq.EventPublisher
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service, publisher mq.EventPublisher) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
	}
}

// CreateBookRequest 创建图书请求DTO
type CreateBookRequest struct {
	Title         string
	Author        string
	Genre         string
	PublishedYear int
	Description   string
	CreatorID     string // 从认证中间件获取
}

// Execute 执行创建图书用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (dto *BookDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateBook")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
		metrics.IncCounterVec(metrics.BooksCreatedTotal, map[string]string{"result": metrics.Result(err)})
	}()

	// 1. 调用领域服务创建图书
	b, err := uc.bookService.CreateBook(ctx, book.CreateInput{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		Description:   req.Description,
	}, req.CreatorID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("book.id", b.ID))

	// 2. 发布事件
	mq.PublishBestEffort(ctx, uc.publisher, mq.RoutingKeyBookCreated, BookCreatedEvent{
		BookID:    b.ID,
		Title:     b.Title,
		Author:    b.Author,
		Genre:     b.Genre,
		CreatedBy: b.CreatedBy,
	})

	// 3. 领域实体 → DTO
	result := toBookDTO(b, rating.Summary{})
	return &result, nil
}
