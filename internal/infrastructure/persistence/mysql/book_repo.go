package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// sortColumns 排序字段 → 列名(白名单,防止SQL注入)
var sortColumns = map[book.SortField]string{
	book.SortByCreatedAt: "created_at",
	book.SortByTitle:     "title",
	book.SortByAuthor:    "author",
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.WrapStore(err, "创建图书失败")
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// List 分页查询图书列表
// 学习要点:
// 1. 先COUNT再分页查询,两次查询使用相同的过滤条件
// 2. 排序列来自白名单,排序最后追加id保证翻页结果稳定
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	// 1. 查询总数
	var total int64
	if err := r.filtered(ctx, params).Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书总数失败")
	}
	if total == 0 {
		return []*book.Book{}, 0, nil
	}

	// 2. 排序
	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	desc := params.Order != book.OrderAsc

	// 3. 分页查询
	var models []BookModel
	err := r.filtered(ctx, params).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书列表失败")
	}

	// 4. 转换为领域实体
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

func (r *bookRepository) filtered(ctx context.Context, params book.ListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&BookModel{})
	if params.Genre != "" {
		query = query.Where("genre = ?", params.Genre)
	}
	if params.Author != "" {
		query = query.Where("author = ?", params.Author)
	}
	return query
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Description:   b.Description,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		Title:         model.Title,
		Author:        model.Author,
		Genre:         model.Genre,
		PublishedYear: model.PublishedYear,
		Description:   model.Description,
		CreatedBy:     model.CreatedBy,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
