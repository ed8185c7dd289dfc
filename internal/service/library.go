package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// LibraryService manages each user's personal library: the reading
// history ring and the bookmarked collection. Libraries are created
// lazily on first use.
type LibraryService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store *sqlite.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{store: store, logger: logger}
}

// CollectionToggleResult reports a collection flip and the new size.
type CollectionToggleResult struct {
	Added bool  `json:"added"`
	Size  int64 `json:"size"`
}

// RecordReading marks a book as recently read, moving it to the front
// of the user's history. chapterID is optional and records where the
// reader left off.
func (s *LibraryService) RecordReading(ctx context.Context, userID, bookID, chapterID string) error {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return notFound(err, "book")
	}
	if chapterID != "" {
		chapter, err := s.store.GetChapter(ctx, chapterID)
		if err != nil {
			return notFound(err, "chapter")
		}
		if chapter.BookID != bookID {
			chapterID = ""
		}
	}

	now := time.Now()
	library, err := s.libraryFor(ctx, userID, now)
	if err != nil {
		return err
	}
	return s.store.TouchHistory(ctx, library.ID, bookID, chapterID, now)
}

// ToggleCollection bookmarks a book, or removes the bookmark if one
// exists. The returned size reflects the collection after the flip.
func (s *LibraryService) ToggleCollection(ctx context.Context, userID, bookID, chapterID string) (*CollectionToggleResult, error) {
	now := time.Now()
	library, err := s.libraryFor(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	added, err := s.store.ToggleCollection(ctx, library.ID, bookID, chapterID, now)
	if err != nil {
		return nil, notFound(err, "book")
	}
	size, err := s.store.CountCollection(ctx, library.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("collection toggled",
		"user_id", userID,
		"book_id", bookID,
		"added", added,
		"size", size)

	return &CollectionToggleResult{Added: added, Size: size}, nil
}

// History returns the user's recently read books, most recent first.
func (s *LibraryService) History(ctx context.Context, userID string) ([]*domain.HistoryEntry, error) {
	library, err := s.libraryFor(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, library.ID)
}

// Collection returns the user's bookmarked books, newest first.
func (s *LibraryService) Collection(ctx context.Context, userID string) ([]*domain.CollectionEntry, error) {
	library, err := s.libraryFor(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	return s.store.ListCollection(ctx, library.ID)
}

// InCollection reports whether a book is bookmarked by the user.
func (s *LibraryService) InCollection(ctx context.Context, userID, bookID string) (bool, error) {
	library, err := s.libraryFor(ctx, userID, time.Now())
	if err != nil {
		return false, err
	}
	return s.store.IsInCollection(ctx, library.ID, bookID)
}

func (s *LibraryService) libraryFor(ctx context.Context, userID string, now time.Time) (*domain.Library, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	return s.store.EnsureLibrary(ctx, userID, now)
}
