package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *sqlite.Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestUser(t *testing.T, st *sqlite.Store, role domain.Role) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:          id.MustGenerate(id.PrefixUser),
		Username:    id.MustGenerate("user"),
		DisplayName: "Test User",
		Role:        role,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func createTestBook(t *testing.T, st *sqlite.Store, authorID string) *domain.Book {
	t.Helper()

	now := time.Now()
	book := &domain.Book{
		ID:        id.MustGenerate(id.PrefixBook),
		AuthorID:  authorID,
		Title:     "Test Book",
		Kind:      domain.BookKindNovel,
		Genre:     "fantasy",
		AgeRating: domain.AgeRatingAll,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateBook(context.Background(), book))
	return book
}

func createTestChapter(t *testing.T, st *sqlite.Store, bookID string) *domain.Chapter {
	t.Helper()

	chapter := &domain.Chapter{
		ID:        id.MustGenerate(id.PrefixChapter),
		BookID:    bookID,
		Title:     "Test Chapter",
		Content:   "Once upon a time.",
		CreatedAt: time.Now(),
	}
	require.NoError(t, st.CreateChapter(context.Background(), chapter))
	return chapter
}
