package book

import (
	"strings"
	"time"

	"github.com/xiebiao/bookreview/pkg/idgen"
)

// DefaultDescription 未填写简介时的占位文本
const DefaultDescription = "暂无简介"

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 平均分和评论数不属于实体,每次读取时由评分聚合器计算(见domain/rating)
// 2. CreatedBy关联创建图书的用户
// 3. ID由应用生成(UUIDv7),与存储驱动无关
type Book struct {
	ID            string
	Title         string
	Author        string
	Genre         string
	PublishedYear int
	Description   string
	CreatedBy     string // 创建者用户ID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书(工厂方法)
// 调用方需先通过Service校验字段,这里只做规范化
func NewBook(title, author, genre string, publishedYear int, description, createdBy string) *Book {
	now := time.Now()
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}
	return &Book{
		ID:            idgen.New(),
		Title:         strings.TrimSpace(title),
		Author:        strings.TrimSpace(author),
		Genre:         strings.TrimSpace(genre),
		PublishedYear: publishedYear,
		Description:   description,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsOwnedBy 检查图书是否由指定用户创建
func (b *Book) IsOwnedBy(userID string) bool {
	return b.CreatedBy == userID
}
