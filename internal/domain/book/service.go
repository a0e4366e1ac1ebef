package book

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xiebiao/bookreview/pkg/idgen"
)

// 字段长度上限(按字符数,与数据库列宽一致)
const (
	MaxTitleLen       = 200
	MaxAuthorLen      = 100
	MaxGenreLen       = 50
	MaxDescriptionLen = 2000
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 评分相关的计算不在这里,由应用层调用评分聚合器
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - 书名、作者、类型去除首尾空白后不能为空
	// - 出版年份必填,范围[1, 当前年份+1]
	// - 简介可选,为空时使用默认占位文本
	CreateBook(ctx context.Context, in CreateInput, creatorID string) (*Book, error)

	// GetBook 根据ID获取图书
	GetBook(ctx context.Context, id string) (*Book, error)

	// ListBooks 分页查询图书列表
	// 按评分排序时,仓储按创建时间倒序取出当前页,由应用层在页内重新排序
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// CreateInput 创建图书的输入
type CreateInput struct {
	Title         string
	Author        string
	Genre         string
	PublishedYear int
	Description   string
}

// service 领域服务实现
type service struct {
	repo Repository
	now  func() time.Time
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, in CreateInput, creatorID string) (*Book, error) {
	// 1. 字段校验
	if err := s.validate(in); err != nil {
		return nil, err
	}

	// 2. 创建图书实体
	book := NewBook(in.Title, in.Author, in.Genre, in.PublishedYear, in.Description, creatorID)

	// 3. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBook 根据ID获取图书
// 不是合法UUID的ID不可能存在，直接返回不存在
func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	if !idgen.Valid(id) {
		return nil, ErrBookNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params, err := NormalizeListParams(params)
	if err != nil {
		return nil, 0, err
	}

	// 评分是读时计算的,无法下推到存储:按创建时间倒序取页
	if params.SortBy == SortByRating {
		params.SortBy = SortByCreatedAt
		params.Order = OrderDesc
	}

	return s.repo.List(ctx, params)
}

// NormalizeListParams 填充默认值并校验分页参数
// page/limit为0表示未传;limit超过上限时截断为MaxPageSize
func NormalizeListParams(p ListParams) (ListParams, error) {
	if p.Page < 0 || p.PageSize < 0 {
		return p, ErrInvalidPage
	}
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	sortBy, err := ParseSortField(string(p.SortBy))
	if err != nil {
		return p, err
	}
	order, err := ParseSortOrder(string(p.Order))
	if err != nil {
		return p, err
	}
	p.SortBy, p.Order = sortBy, order

	p.Genre = strings.TrimSpace(p.Genre)
	p.Author = strings.TrimSpace(p.Author)
	return p, nil
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

func (s *service) validate(in CreateInput) error {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	genre := strings.TrimSpace(in.Genre)

	switch {
	case title == "":
		return ErrEmptyTitle
	case author == "":
		return ErrEmptyAuthor
	case genre == "":
		return ErrEmptyGenre
	}

	if utf8.RuneCountInString(title) > MaxTitleLen ||
		utf8.RuneCountInString(author) > MaxAuthorLen ||
		utf8.RuneCountInString(genre) > MaxGenreLen ||
		utf8.RuneCountInString(strings.TrimSpace(in.Description)) > MaxDescriptionLen {
		return ErrFieldTooLong
	}

	// 允许登记明年出版的预售图书
	if in.PublishedYear < 1 || in.PublishedYear > s.now().Year()+1 {
		return ErrInvalidPublishedYear
	}

	return nil
}
