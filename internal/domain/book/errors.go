package book

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrEmptyTitle 书名为空
	ErrEmptyTitle = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrEmptyAuthor 作者为空
	ErrEmptyAuthor = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")

	// ErrEmptyGenre 类型为空
	ErrEmptyGenre = apperrors.New(apperrors.ErrCodeInvalidParams, "类型不能为空")

	// ErrInvalidPublishedYear 出版年份不合法
	ErrInvalidPublishedYear = apperrors.New(apperrors.ErrCodeInvalidParams, "出版年份不合法")

	// ErrFieldTooLong 字段超长
	ErrFieldTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "字段长度超出限制")

	// ErrInvalidSortBy 不支持的排序字段
	ErrInvalidSortBy = apperrors.New(apperrors.ErrCodeInvalidParams, "sortBy必须是createdAt、rating、title或author")

	// ErrInvalidOrder 不支持的排序方向
	ErrInvalidOrder = apperrors.New(apperrors.ErrCodeInvalidParams, "order必须是asc或desc")

	// ErrInvalidPage 分页参数不合法
	ErrInvalidPage = apperrors.New(apperrors.ErrCodeInvalidParams, "page和limit必须为正整数")
)
