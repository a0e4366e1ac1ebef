package book

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持按类型/作者过滤、排序、分页
// 2. 当前页的图书通过一次批量聚合补充评分
// 3. 按评分排序时,仓储按创建时间倒序取页,这里在页内按平均分稳定排序
type ListBooksUseCase struct {
	bookService book.Service
	aggregator  *rating.Aggregator
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, aggregator *rating.Aggregator) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		aggregator:  aggregator,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Genre    string
	Author   string
	SortBy   string // createdAt | rating | title | author
	Order    string // desc | asc
	Page     int    // 0表示使用默认值
	PageSize int    // 0表示使用默认值
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List     []BookDTO
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询用例
// 学习要点:
// 1. 参数默认值与范围校验在领域层(NormalizeListParams)
// 2. 评分聚合是一次批量调用,不是每本书一次查询
// 3. sort.SliceStable保证平均分相同时保持创建时间倒序
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (resp *ListBooksResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListBooks")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	// 1. 参数校验与默认值
	params, err := book.NormalizeListParams(book.ListParams{
		Genre:    req.Genre,
		Author:   req.Author,
		SortBy:   book.SortField(req.SortBy),
		Order:    book.SortOrder(req.Order),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("list.sort_by", string(params.SortBy)),
		attribute.Int("list.page", params.Page),
		attribute.Int("list.page_size", params.PageSize),
	)

	// 2. 查询当前页
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 3. 批量聚合评分
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	summaries, err := uc.aggregator.AggregateMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = toBookDTO(b, summaries[b.ID])
	}

	// 4. 页内按平均分排序(方向固定为降序)
	if params.SortBy == book.SortByRating {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].AverageRating > list[j].AverageRating
		})
	}

	return &ListBooksResponse{
		List:     list,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}
