package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
	aggregator  *rating.Aggregator
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, aggregator *rating.Aggregator) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		aggregator:  aggregator,
	}
}

// Execute 查询图书并附带实时评分
func (uc *GetBookUseCase) Execute(ctx context.Context, id string) (*BookDTO, error) {
	// 1. 查询图书(不存在返回404)
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 读时聚合评分
	summary, err := uc.aggregator.Aggregate(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	result := toBookDTO(b, summary)
	return &result, nil
}
