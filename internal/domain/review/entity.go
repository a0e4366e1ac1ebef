package review

import (
	"strings"
	"time"

	"github.com/xiebiao/bookreview/pkg/idgen"
)

// 评分范围
const (
	MinRating = 1
	MaxRating = 5
)

// MaxTextLen 书评正文最大字符数
const MaxTextLen = 5000

// Review 书评实体
// 创建后不可修改:没有更新和删除操作,BookID和ReviewerID永远不变
type Review struct {
	ID         string
	BookID     string
	ReviewerID string
	Text       string
	Rating     int
	CreatedAt  time.Time
}

// NewReview 创建书评(工厂方法)
func NewReview(bookID, reviewerID string, rating int, text string) *Review {
	return &Review{
		ID:         idgen.New(),
		BookID:     bookID,
		ReviewerID: reviewerID,
		Text:       strings.TrimSpace(text),
		Rating:     rating,
		CreatedAt:  time.Now(),
	}
}
