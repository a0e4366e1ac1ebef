package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// reviewDocument 书评文档
type reviewDocument struct {
	ID         string    `bson:"_id"`
	BookID     string    `bson:"book_id"`
	ReviewerID string    `bson:"reviewer_id"`
	ReviewText string    `bson:"review_text"`
	Rating     int       `bson:"rating"`
	CreatedAt  time.Time `bson:"created_at"`
}

// tallyDocument $group输出
type tallyDocument struct {
	BookID string `bson:"_id"`
	Sum    int64  `bson:"sum"`
	Count  int64  `bson:"count"`
}

// reviewRepository 书评仓储实现(MongoDB)
type reviewRepository struct {
	coll *mongo.Collection
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *mongo.Database) review.Repository {
	return &reviewRepository{coll: db.Collection(collReviews)}
}

// Create 创建书评(单文档写入是原子的)
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	_, err := r.coll.InsertOne(ctx, reviewDocument{
		ID:         rv.ID,
		BookID:     rv.BookID,
		ReviewerID: rv.ReviewerID,
		ReviewText: rv.Text,
		Rating:     rv.Rating,
		CreatedAt:  rv.CreatedAt,
	})
	if err != nil {
		return apperrors.WrapStore(err, "创建书评失败")
	}
	return nil
}

// ListByBook 查询图书的全部书评(按创建顺序)
func (r *reviewRepository) ListByBook(ctx context.Context, bookID string) ([]*review.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"book_id": bookID}, opts)
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询书评失败")
	}
	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.WrapStore(err, "查询书评失败")
	}

	reviews := make([]*review.Review, len(docs))
	for i, d := range docs {
		reviews[i] = &review.Review{
			ID:         d.ID,
			BookID:     d.BookID,
			ReviewerID: d.ReviewerID,
			Text:       d.ReviewText,
			Rating:     d.Rating,
			CreatedAt:  d.CreatedAt,
		}
	}
	return reviews, nil
}

// RatingTallies 按图书分组统计评分
// 管道: $match book_id ∈ ids → $group {_id: book_id, sum: Σrating, count: Σ1}
func (r *reviewRepository) RatingTallies(ctx context.Context, bookIDs []string) (map[string]rating.Summary, error) {
	result := make(map[string]rating.Summary, len(bookIDs))
	if len(bookIDs) == 0 {
		return result, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"book_id": bson.M{"$in": bookIDs}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$book_id"},
			{Key: "sum", Value: bson.M{"$sum": bson.M{"$toLong": "$rating"}}},
			{Key: "count", Value: bson.M{"$sum": int64(1)}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.WrapStore(err, "统计评分失败")
	}
	var docs []tallyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.WrapStore(err, "统计评分失败")
	}

	for _, d := range docs {
		result[d.BookID] = rating.Summary{Sum: d.Sum, Count: d.Count}
	}
	return result, nil
}
