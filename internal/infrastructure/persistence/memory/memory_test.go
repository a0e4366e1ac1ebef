package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func seedBooks(t *testing.T, repo book.Repository) []*book.Book {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	specs := []struct{ title, author, genre string }{
		{"Dune", "Frank Herbert", "SF"},
		{"Emma", "Jane Austen", "Classic"},
		{"Children of Dune", "Frank Herbert", "SF"},
		{"Persuasion", "Jane Austen", "Classic"},
		{"Neuromancer", "William Gibson", "SF"},
	}
	var out []*book.Book
	for i, s := range specs {
		b := book.NewBook(s.title, s.author, s.genre, 1960+i, "", "u1")
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(context.Background(), b))
		out = append(out, b)
	}
	return out
}

func titles(books []*book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestBookRepository_List(t *testing.T) {
	repo := NewBookRepository()
	seedBooks(t, repo)
	ctx := context.Background()

	tests := []struct {
		name      string
		params    book.ListParams
		want      []string
		wantTotal int64
	}{
		{
			name:      "默认按创建时间倒序",
			params:    book.ListParams{SortBy: book.SortByCreatedAt, Order: book.OrderDesc, Page: 1, PageSize: 5},
			want:      []string{"Neuromancer", "Persuasion", "Children of Dune", "Emma", "Dune"},
			wantTotal: 5,
		},
		{
			name:      "按类型过滤",
			params:    book.ListParams{Genre: "SF", SortBy: book.SortByTitle, Order: book.OrderAsc, Page: 1, PageSize: 5},
			want:      []string{"Children of Dune", "Dune", "Neuromancer"},
			wantTotal: 3,
		},
		{
			name:      "按作者过滤",
			params:    book.ListParams{Author: "Jane Austen", SortBy: book.SortByTitle, Order: book.OrderDesc, Page: 1, PageSize: 5},
			want:      []string{"Persuasion", "Emma"},
			wantTotal: 2,
		},
		{
			name:      "第二页",
			params:    book.ListParams{SortBy: book.SortByCreatedAt, Order: book.OrderAsc, Page: 2, PageSize: 2},
			want:      []string{"Children of Dune", "Persuasion"},
			wantTotal: 5,
		},
		{
			name:      "超出范围的页码",
			params:    book.ListParams{SortBy: book.SortByCreatedAt, Order: book.OrderAsc, Page: 9, PageSize: 2},
			want:      []string{},
			wantTotal: 5,
		},
		{
			name:      "没有匹配",
			params:    book.ListParams{Genre: "Poetry", Page: 1, PageSize: 5},
			want:      []string{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := repo.List(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.want, titles(books))
		})
	}
}

func TestBookRepository_ListTieBreakByID(t *testing.T) {
	repo := NewBookRepository()
	ctx := context.Background()
	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		b := book.NewBook(fmt.Sprintf("B%d", i), "A", "G", 2000, "", "u1")
		b.CreatedAt = same
		require.NoError(t, repo.Create(ctx, b))
		ids = append(ids, b.ID)
	}

	books, _, err := repo.List(ctx, book.ListParams{SortBy: book.SortByCreatedAt, Order: book.OrderDesc, Page: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, ids[2], books[0].ID, "创建时间相同时按ID倒序")
	assert.Equal(t, ids[0], books[2].ID)
}

func TestBookRepository_FindByID(t *testing.T) {
	repo := NewBookRepository()
	books := seedBooks(t, repo)

	got, err := repo.FindByID(context.Background(), books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	// 返回副本,修改不影响存储
	got.Title = "changed"
	again, _ := repo.FindByID(context.Background(), books[0].ID)
	assert.Equal(t, "Dune", again.Title)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.Same(t, book.ErrBookNotFound, err)
}

func TestReviewRepository(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()

	for _, r := range []int{5, 4, 4} {
		require.NoError(t, repo.Create(ctx, review.NewReview("b1", "u1", r, "text")))
	}
	require.NoError(t, repo.Create(ctx, review.NewReview("b2", "u2", 2, "meh")))

	list, err := repo.ListByBook(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 5, list[0].Rating, "按插入顺序")

	empty, err := repo.ListByBook(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)

	tallies, err := repo.RatingTallies(ctx, []string{"b1", "b2", "b3"})
	require.NoError(t, err)
	assert.Equal(t, rating.Summary{Sum: 13, Count: 3}, tallies["b1"])
	assert.Equal(t, rating.Summary{Sum: 2, Count: 1}, tallies["b2"])
	assert.NotContains(t, tallies, "b3")
}

func TestReviewRepository_ConcurrentCreate(t *testing.T) {
	repo := NewReviewRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, review.NewReview("b1", "u1", i%5+1, "text"))
		}(i)
	}
	wg.Wait()

	tallies, err := repo.RatingTallies(ctx, []string{"b1"})
	require.NoError(t, err)
	assert.Equal(t, int64(50), tallies["b1"].Count)
	assert.Equal(t, int64(150), tallies["b1"].Sum)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	alice := user.NewUser("alice", "alice@example.com", "hash")
	require.NoError(t, repo.Create(ctx, alice))

	assert.Same(t, apperrors.ErrUsernameDuplicate, repo.Create(ctx, user.NewUser("alice", "x@example.com", "hash")))
	assert.Same(t, apperrors.ErrEmailDuplicate, repo.Create(ctx, user.NewUser("bob", "alice@example.com", "hash")))

	got, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.FindByID(ctx, "ghost")
	assert.Same(t, apperrors.ErrUserNotFound, err)

	users, err := repo.FindByIDs(ctx, []string{alice.ID, "ghost"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, "u1", map[string]interface{}{"username": "alice"}, time.Hour))
	assert.True(t, store.HasSession("u1"))
	require.NoError(t, store.DeleteSession(ctx, "u1"))
	assert.False(t, store.HasSession("u1"))

	require.NoError(t, store.AddToBlacklist(ctx, "jti-1", time.Minute))
	revoked, err := store.IsInBlacklist(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 过期后自动移出黑名单
	now = now.Add(2 * time.Minute)
	revoked, err = store.IsInBlacklist(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, "jti-2", 0))
	revoked, _ = store.IsInBlacklist(ctx, "jti-2")
	assert.False(t, revoked, "已过期的Token不记录")
}
