package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(mysql/mongo/memory)
// 2. 便于测试,不依赖具体数据库实现
// 3. 没有删除操作;如果以后增加删除,必须级联删除该书的书评
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	// 如果不存在,返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// List 分页查询图书列表,返回当前页数据和符合条件的总数
	// 实现必须按params.SortBy/Order排序,并以ID作为最后的排序键(方向相同)
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// SortField 排序字段
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByRating    SortField = "rating"
	SortByTitle     SortField = "title"
	SortByAuthor    SortField = "author"
)

// SortOrder 排序方向
type SortOrder string

const (
	OrderDesc SortOrder = "desc"
	OrderAsc  SortOrder = "asc"
)

// 分页默认值
const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// ListParams 列表查询参数
type ListParams struct {
	Genre    string    // 类型精确匹配(空表示不过滤)
	Author   string    // 作者精确匹配(空表示不过滤)
	SortBy   SortField // 仓储只会收到createdAt/title/author
	Order    SortOrder
	Page     int // 页码(从1开始)
	PageSize int // 每页数量
}

// Offset 跳过的记录数
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParseSortField 解析排序字段(空串使用默认值createdAt)
func ParseSortField(s string) (SortField, error) {
	switch SortField(s) {
	case "":
		return SortByCreatedAt, nil
	case SortByCreatedAt, SortByRating, SortByTitle, SortByAuthor:
		return SortField(s), nil
	default:
		return "", ErrInvalidSortBy
	}
}

// ParseSortOrder 解析排序方向(空串使用默认值desc)
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return OrderDesc, nil
	case OrderDesc, OrderAsc:
		return SortOrder(s), nil
	default:
		return "", ErrInvalidOrder
	}
}
