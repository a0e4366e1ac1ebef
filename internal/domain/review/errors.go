package review

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 书评领域错误定义
var (
	// ErrInvalidRating 评分不在1-5之间
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidParams, "评分必须是1到5之间的整数")

	// ErrEmptyText 书评内容为空
	ErrEmptyText = apperrors.New(apperrors.ErrCodeInvalidParams, "书评内容不能为空")

	// ErrTextTooLong 书评内容过长
	ErrTextTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "书评内容不能超过5000个字符")
)
