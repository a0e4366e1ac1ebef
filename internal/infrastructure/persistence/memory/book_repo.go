// Package memory 内存仓储实现
// 用于本地开发(storage.driver=memory)和上层的单元测试;进程退出后数据丢失
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// bookRepository 图书仓储实现(内存)
type bookRepository struct {
	mu    sync.RWMutex
	books map[string]*book.Book
	now   func() time.Time
}

// NewBookRepository 创建图书仓储
func NewBookRepository() book.Repository {
	return &bookRepository{books: make(map[string]*book.Book), now: time.Now}
}

// Create 创建图书
func (r *bookRepository) Create(_ context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.CreatedAt.IsZero() {
		b.CreatedAt = r.now()
		b.UpdatedAt = b.CreatedAt
	}
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

// List 分页查询图书列表
func (r *bookRepository) List(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	r.mu.RLock()
	matched := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		if params.Genre != "" && b.Genre != params.Genre {
			continue
		}
		if params.Author != "" && b.Author != params.Author {
			continue
		}
		cp := *b
		matched = append(matched, &cp)
	}
	r.mu.RUnlock()

	desc := params.Order != book.OrderAsc
	sort.Slice(matched, func(i, j int) bool {
		c := compareBooks(matched[i], matched[j], params.SortBy)
		if c == 0 {
			c = strings.Compare(matched[i].ID, matched[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []*book.Book{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// compareBooks 按排序字段比较,返回-1/0/1
func compareBooks(a, b *book.Book, field book.SortField) int {
	switch field {
	case book.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case book.SortByAuthor:
		return strings.Compare(a.Author, b.Author)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
