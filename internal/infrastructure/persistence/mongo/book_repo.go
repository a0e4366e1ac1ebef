package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/bookreview/internal/domain/book"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// bookDocument 图书文档(不保存平均分和评论数)
type bookDocument struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Author        string    `bson:"author"`
	Genre         string    `bson:"genre"`
	PublishedYear int       `bson:"published_year"`
	Description   string    `bson:"description"`
	CreatedBy     string    `bson:"created_by"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// sortFields 排序字段 → 文档字段
var sortFields = map[book.SortField]string{
	book.SortByCreatedAt: "created_at",
	book.SortByTitle:     "title",
	book.SortByAuthor:    "author",
}

// bookRepository 图书仓储实现(MongoDB)
type bookRepository struct {
	coll *mongo.Collection
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *mongo.Database) book.Repository {
	return &bookRepository{coll: db.Collection(collBooks)}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	_, err := r.coll.InsertOne(ctx, bookDocument{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		PublishedYear: b.PublishedYear,
		Description:   b.Description,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	})
	if err != nil {
		return apperrors.WrapStore(err, "创建图书失败")
	}
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询图书失败")
	}
	return doc.toEntity(), nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	// 1. 过滤条件
	filter := bson.M{}
	if params.Genre != "" {
		filter["genre"] = params.Genre
	}
	if params.Author != "" {
		filter["author"] = params.Author
	}

	// 2. 总数
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书总数失败")
	}
	if total == 0 {
		return []*book.Book{}, 0, nil
	}

	// 3. 排序 + 分页,_id作为最后的排序键
	field, ok := sortFields[params.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if params.Order == book.OrderAsc {
		dir = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.PageSize))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书列表失败")
	}
	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(docs))
	for i := range docs {
		books[i] = docs[i].toEntity()
	}
	return books, total, nil
}

func (d *bookDocument) toEntity() *book.Book {
	return &book.Book{
		ID:            d.ID,
		Title:         d.Title,
		Author:        d.Author,
		Genre:         d.Genre,
		PublishedYear: d.PublishedYear,
		Description:   d.Description,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
