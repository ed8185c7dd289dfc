package service

import (
	"context"
	"testing"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBooks(t *testing.T) (*BookService, *sqlite.Store) {
	t.Helper()

	st := newTestSQLite(t)
	idx, err := search.NewIndex(search.Options{
		DataPath: t.TempDir(),
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	return NewBookService(st, idx, discardLogger()), st
}

func TestCreateBook(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)

	book, err := svc.CreateBook(ctx, author.ID, CreateBookInput{
		Title: "  The Hollow Crown  ",
		Kind:  domain.BookKindNovel,
		Genre: "fantasy",
	})
	require.NoError(t, err)
	assert.Equal(t, "The Hollow Crown", book.Title)
	assert.Equal(t, domain.AgeRatingAll, book.AgeRating)
	assert.Equal(t, author.ID, book.AuthorID)
}

func TestCreateBook_GenreCanonicalized(t *testing.T) {
	svc, st := newTestBooks(t)
	author := createTestUser(t, st, domain.RoleAuthor)

	book, err := svc.CreateBook(context.Background(), author.ID, CreateBookInput{
		Title: "Star Drift",
		Kind:  domain.BookKindNovel,
		Genre: "Sci-Fi",
	})
	require.NoError(t, err)
	assert.Equal(t, "science-fiction", book.Genre)
}

func TestCreateBook_ReaderForbidden(t *testing.T) {
	svc, st := newTestBooks(t)
	reader := createTestUser(t, st, domain.RoleReader)

	_, err := svc.CreateBook(context.Background(), reader.ID, CreateBookInput{
		Title: "Nope",
		Kind:  domain.BookKindNovel,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCreateBook_Validation(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)

	_, err := svc.CreateBook(ctx, author.ID, CreateBookInput{Title: "x", Kind: "poem"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateBook(ctx, author.ID, CreateBookInput{Title: "  ", Kind: domain.BookKindNovel})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreateBook(ctx, author.ID, CreateBookInput{
		Title: "x", Kind: domain.BookKindNovel, AgeRating: "21+",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateBook_OwnerOnly(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	other := createTestUser(t, st, domain.RoleAuthor)
	moderator := createTestUser(t, st, domain.RoleModerator)
	book := createTestBook(t, st, author.ID)

	title := "Renamed"
	_, err := svc.UpdateBook(ctx, other.ID, book.ID, UpdateBookInput{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := svc.UpdateBook(ctx, author.ID, book.ID, UpdateBookInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	title = "Renamed Again"
	updated, err = svc.UpdateBook(ctx, moderator.ID, book.ID, UpdateBookInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Again", updated.Title)
}

func TestDeleteBook(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)
	chapter := createTestChapter(t, st, book.ID)

	require.NoError(t, svc.DeleteBook(ctx, author.ID, book.ID))

	_, err := st.GetBook(ctx, book.ID)
	require.Error(t, err)
	_, err = st.GetChapter(ctx, chapter.ID)
	require.Error(t, err)
}

func TestOpenBook_BumpsViews(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	opened, err := svc.OpenBook(ctx, book.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), opened.Views)

	// Book pages are not session-deduplicated.
	opened, err = svc.OpenBook(ctx, book.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), opened.Views)

	views, err := st.CountEventsForBook(ctx, book.ID, domain.EventView)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)
}

func TestChapterLifecycle(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	first, err := svc.AddChapter(ctx, author.ID, book.ID, "One", "text one")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	second, err := svc.AddChapter(ctx, author.ID, book.ID, "Two", "text two")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	third, err := svc.AddChapter(ctx, author.ID, book.ID, "Three", "text three")
	require.NoError(t, err)
	assert.Equal(t, 3, third.Order)

	edited, err := svc.EditChapter(ctx, author.ID, second.ID, "Two, Revised", "better text")
	require.NoError(t, err)
	assert.Equal(t, "Two, Revised", edited.Title)
	assert.Equal(t, 2, edited.Order)

	require.NoError(t, svc.DeleteChapter(ctx, author.ID, second.ID))

	chapters, err := svc.ListChapters(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, 1, chapters[0].Order)
	assert.Equal(t, 2, chapters[1].Order)
	assert.Equal(t, third.ID, chapters[1].ID)
}

func TestAddChapter_NotOwner(t *testing.T) {
	svc, st := newTestBooks(t)
	author := createTestUser(t, st, domain.RoleAuthor)
	other := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	_, err := svc.AddChapter(context.Background(), other.ID, book.ID, "Sneaky", "text")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestBrowse(t *testing.T) {
	svc, st := newTestBooks(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)

	for _, title := range []string{"The Hollow Crown", "Crown of Ash", "Quiet Harbors"} {
		_, err := svc.CreateBook(ctx, author.ID, CreateBookInput{
			Title: title,
			Kind:  domain.BookKindNovel,
			Genre: "fantasy",
		})
		require.NoError(t, err)
	}

	params := search.DefaultBrowseParams()
	params.Query = "crown"
	result, err := svc.Browse(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}
