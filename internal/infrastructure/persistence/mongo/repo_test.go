package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestUserRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("创建成功", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := NewUserRepository(mt.DB).Create(context.Background(), user.NewUser("alice", "a@example.com", "hash"))
		assert.NoError(mt, err)
	})

	mt.Run("用户名重复", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: uk_users_username dup key",
		}))
		err := NewUserRepository(mt.DB).Create(context.Background(), user.NewUser("alice", "a@example.com", "hash"))
		assert.Same(mt, apperrors.ErrUsernameDuplicate, err)
	})

	mt.Run("邮箱重复", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: uk_users_email dup key",
		}))
		err := NewUserRepository(mt.DB).Create(context.Background(), user.NewUser("alice", "a@example.com", "hash"))
		assert.Same(mt, apperrors.ErrEmailDuplicate, err)
	})

	mt.Run("按邮箱查询", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "username", Value: "alice"},
			{Key: "email", Value: "a@example.com"},
		}))

		u, err := NewUserRepository(mt.DB).FindByEmail(context.Background(), "a@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, "u1", u.ID)
		assert.Equal(mt, "alice", u.Username)
	})

	mt.Run("用户不存在", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collUsers
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewUserRepository(mt.DB).FindByID(context.Background(), "ghost")
		assert.Same(mt, apperrors.ErrUserNotFound, err)
	})
}

func TestBookRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("查询不存在的图书", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collBooks
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewBookRepository(mt.DB).FindByID(context.Background(), "missing")
		assert.Same(mt, book.ErrBookNotFound, err)
	})

	mt.Run("分页列表", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collBooks
		created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			// CountDocuments走aggregate
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(7)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "b1"}, {Key: "title", Value: "Dune"}, {Key: "genre", Value: "SF"}, {Key: "created_at", Value: created}},
				bson.D{{Key: "_id", Value: "b2"}, {Key: "title", Value: "Neuromancer"}, {Key: "genre", Value: "SF"}, {Key: "created_at", Value: created}},
			),
		)

		books, total, err := NewBookRepository(mt.DB).List(context.Background(), book.ListParams{
			Genre: "SF", SortBy: book.SortByTitle, Order: book.OrderAsc, Page: 1, PageSize: 5,
		})
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), total)
		require.Len(mt, books, 2)
		assert.Equal(mt, "Dune", books[0].Title)
	})
}

func TestReviewRepository(t *testing.T) {
	mt := newMockT(t)

	mt.Run("创建书评", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := NewReviewRepository(mt.DB).Create(context.Background(), review.NewReview("b1", "u1", 5, "great"))
		assert.NoError(mt, err)
	})

	mt.Run("评分统计", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + collReviews
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "b1"}, {Key: "sum", Value: int64(13)}, {Key: "count", Value: int64(3)}},
		))

		got, err := NewReviewRepository(mt.DB).RatingTallies(context.Background(), []string{"b1", "b2"})
		require.NoError(mt, err)
		assert.Equal(mt, rating.Summary{Sum: 13, Count: 3}, got["b1"])
		assert.NotContains(mt, got, "b2")
	})

	mt.Run("空ID列表不访问数据库", func(mt *mtest.T) {
		got, err := NewReviewRepository(mt.DB).RatingTallies(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})

	mt.Run("聚合失败", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad pipeline"}))

		_, err := NewReviewRepository(mt.DB).RatingTallies(context.Background(), []string{"b1"})
		require.Error(mt, err)
		assert.Equal(mt, apperrors.ErrCodeDatabaseError, apperrors.GetAppError(err).Code)
	})
}
