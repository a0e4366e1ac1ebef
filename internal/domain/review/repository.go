package review

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/rating"
)

// Repository 书评仓储接口
// 同时是评分聚合器的数据来源(rating.Source):
// 实现应在存储端完成分组求和(SQL GROUP BY / Mongo $group),一次调用覆盖所有请求的图书
type Repository interface {
	rating.Source

	// Create 创建书评(单条原子写入)
	Create(ctx context.Context, review *Review) error

	// ListByBook 查询图书的全部书评,按创建顺序(createdAt升序,ID升序)
	ListByBook(ctx context.Context, bookID string) ([]*Review, error)
}
