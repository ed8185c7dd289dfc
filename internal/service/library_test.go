package service

import (
	"context"
	"testing"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) (*LibraryService, *sqlite.Store) {
	t.Helper()

	st := newTestSQLite(t)
	return NewLibraryService(st, discardLogger()), st
}

func TestRecordReading(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reader := createTestUser(t, st, domain.RoleReader)
	book := createTestBook(t, st, author.ID)
	chapter := createTestChapter(t, st, book.ID)

	require.NoError(t, svc.RecordReading(ctx, reader.ID, book.ID, chapter.ID))

	history, err := svc.History(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, book.ID, history[0].BookID)
	assert.Equal(t, chapter.ID, history[0].LastReadChapterID)
}

func TestRecordReading_MovesToFront(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reader := createTestUser(t, st, domain.RoleReader)
	first := createTestBook(t, st, author.ID)
	second := createTestBook(t, st, author.ID)

	require.NoError(t, svc.RecordReading(ctx, reader.ID, first.ID, ""))
	require.NoError(t, svc.RecordReading(ctx, reader.ID, second.ID, ""))
	require.NoError(t, svc.RecordReading(ctx, reader.ID, first.ID, ""))

	history, err := svc.History(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].BookID)
	assert.Equal(t, second.ID, history[1].BookID)
}

func TestRecordReading_IgnoresForeignChapter(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reader := createTestUser(t, st, domain.RoleReader)
	book := createTestBook(t, st, author.ID)
	other := createTestBook(t, st, author.ID)
	foreignChapter := createTestChapter(t, st, other.ID)

	// A chapter from another book cannot be the reading position.
	require.NoError(t, svc.RecordReading(ctx, reader.ID, book.ID, foreignChapter.ID))

	history, err := svc.History(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Empty(t, history[0].LastReadChapterID)
}

func TestRecordReading_Errors(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reader := createTestUser(t, st, domain.RoleReader)
	book := createTestBook(t, st, author.ID)

	err := svc.RecordReading(ctx, reader.ID, "bk-missing", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.RecordReading(ctx, reader.ID, book.ID, "ch-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.RecordReading(ctx, "usr-missing", book.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggleCollection(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reader := createTestUser(t, st, domain.RoleReader)
	book := createTestBook(t, st, author.ID)

	added, err := svc.ToggleCollection(ctx, reader.ID, book.ID, "")
	require.NoError(t, err)
	assert.True(t, added.Added)
	assert.Equal(t, int64(1), added.Size)

	in, err := svc.InCollection(ctx, reader.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, in)

	removed, err := svc.ToggleCollection(ctx, reader.ID, book.ID, "")
	require.NoError(t, err)
	assert.False(t, removed.Added)
	assert.Zero(t, removed.Size)

	_, err = svc.ToggleCollection(ctx, reader.ID, "bk-missing", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCollectionListing(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reader := createTestUser(t, st, domain.RoleReader)

	books := make([]*domain.Book, 3)
	for i := range books {
		books[i] = createTestBook(t, st, author.ID)
		_, err := svc.ToggleCollection(ctx, reader.ID, books[i].ID, "")
		require.NoError(t, err)
	}

	entries, err := svc.Collection(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first.
	assert.Equal(t, books[2].ID, entries[0].BookID)
}

func TestLibraryIsolatedPerUser(t *testing.T) {
	svc, st := newTestLibrary(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	alice := createTestUser(t, st, domain.RoleReader)
	bob := createTestUser(t, st, domain.RoleReader)
	book := createTestBook(t, st, author.ID)

	_, err := svc.ToggleCollection(ctx, alice.ID, book.ID, "")
	require.NoError(t, err)

	in, err := svc.InCollection(ctx, bob.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, in)
}
