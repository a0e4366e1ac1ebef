package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookreview/pkg/mq"
)

type countingPublisher struct{ n int }

func (p *countingPublisher) Publish(context.Context, string, interface{}) error {
	p.n++
	return nil
}

func (p *countingPublisher) Close() error { return nil }

type fixture struct {
	bookID    string
	alice     *user.User
	publisher *countingPublisher
	create    *CreateReviewUseCase
	list      *ListReviewsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	books := memory.NewBookRepository()
	b := book.NewBook("Dune", "Frank Herbert", "SF", 1965, "", "u0")
	require.NoError(t, books.Create(ctx, b))

	userSvc := user.NewService(memory.NewUserRepository(), bcrypt.MinCost)
	alice, err := userSvc.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	reviewSvc := review.NewService(memory.NewReviewRepository(), books)
	pub := &countingPublisher{}

	return &fixture{
		bookID:    b.ID,
		alice:     alice,
		publisher: pub,
		create:    NewCreateReviewUseCase(reviewSvc, pub),
		list:      NewListReviewsUseCase(reviewSvc, userSvc),
	}
}

var _ mq.EventPublisher = (*countingPublisher)(nil)

func TestCreateReview(t *testing.T) {
	f := newFixture(t)

	r, err := f.create.Execute(context.Background(), CreateReviewRequest{
		BookID: f.bookID, Rating: 5, Text: " Great ", ReviewerID: f.alice.ID, ReviewerUsername: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, "Great", r.Text)
	assert.Equal(t, f.bookID, r.BookID)
	assert.Equal(t, ReviewerDTO{ID: f.alice.ID, Username: "alice"}, r.Reviewer)
	assert.Equal(t, 1, f.publisher.n)
}

func TestCreateReview_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.create.Execute(context.Background(), CreateReviewRequest{BookID: "missing", Rating: 5, Text: "x", ReviewerID: f.alice.ID})
	assert.Same(t, book.ErrBookNotFound, err)

	_, err = f.create.Execute(context.Background(), CreateReviewRequest{BookID: f.bookID, Rating: 6, Text: "x", ReviewerID: f.alice.ID})
	assert.Same(t, review.ErrInvalidRating, err)

	assert.Zero(t, f.publisher.n, "失败时不发布事件")
}

func TestListReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, req := range []CreateReviewRequest{
		{BookID: f.bookID, Rating: 5, Text: "first", ReviewerID: f.alice.ID},
		{BookID: f.bookID, Rating: 3, Text: "second", ReviewerID: "gone"},
		{BookID: f.bookID, Rating: 4, Text: "third", ReviewerID: f.alice.ID},
	} {
		_, err := f.create.Execute(ctx, req)
		require.NoError(t, err)
	}

	list, err := f.list.Execute(ctx, f.bookID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "first", list[0].Text, "按创建顺序")
	assert.Equal(t, "alice", list[0].Reviewer.Username)
	assert.Equal(t, user.DeletedUsername, list[1].Reviewer.Username)
	assert.Equal(t, "gone", list[1].Reviewer.ID)
	assert.Equal(t, "third", list[2].Text)
}

func TestListReviews_UnknownBook(t *testing.T) {
	f := newFixture(t)

	list, err := f.list.Execute(context.Background(), "unknown")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
