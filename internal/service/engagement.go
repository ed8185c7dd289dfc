package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/session"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// EngagementService coordinates view counting and like toggles. Views
// are deduplicated per browsing session through the badger guard; likes
// are membership toggles with paired counters.
type EngagementService struct {
	store    *sqlite.Store
	sessions *session.Manager
	logger   *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(store *sqlite.Store, sessions *session.Manager, logger *slog.Logger) *EngagementService {
	return &EngagementService{
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// ViewResult reports the outcome of a view registration.
type ViewResult struct {
	Counted      bool  `json:"counted"`
	ChapterViews int64 `json:"chapter_views"`
	BookViews    int64 `json:"book_views"`
}

// ToggleResult reports the outcome of a like or favorite toggle.
type ToggleResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// RegisterView counts a chapter view at most once per browsing session.
// A repeat view returns the current counters untouched. A fresh view
// bumps the chapter and its parent book atomically and appends a view
// event with the owning book denormalized in.
//
// actorID may be empty for anonymous readers; sessionID may be empty
// for clients without cookies, in which case every view counts.
func (s *EngagementService) RegisterView(ctx context.Context, sessionID, actorID, chapterID string) (*ViewResult, error) {
	chapter, err := s.store.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, notFound(err, "chapter")
	}

	if sessionID != "" {
		seen, err := s.sessions.HasSeen(sessionID, chapterID)
		if err != nil {
			return nil, err
		}
		if seen {
			book, err := s.store.GetBook(ctx, chapter.BookID)
			if err != nil {
				return nil, notFound(err, "book")
			}
			return &ViewResult{
				Counted:      false,
				ChapterViews: chapter.Views,
				BookViews:    book.Views,
			}, nil
		}
	}

	chapterViews, err := s.store.IncrementChapterViews(ctx, chapterID)
	if err != nil {
		return nil, notFound(err, "chapter")
	}
	bookViews, err := s.store.IncrementBookViews(ctx, chapter.BookID)
	if err != nil {
		return nil, notFound(err, "book")
	}

	event := &domain.EngagementEvent{
		ID:          id.MustGenerate(id.PrefixEvent),
		SubjectID:   chapterID,
		SubjectKind: domain.SubjectChapter,
		BookID:      chapter.BookID,
		Kind:        domain.EventView,
		ActorID:     actorID,
		OccurredAt:  time.Now(),
	}
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	if sessionID != "" {
		if err := s.sessions.MarkSeen(sessionID, chapterID); err != nil {
			// A failed mark means the next view may double count; the
			// counters themselves are already consistent.
			s.logger.Warn("failed to mark chapter as seen", "session_id", sessionID, "chapter_id", chapterID, "error", err)
		}
	}

	return &ViewResult{
		Counted:      true,
		ChapterViews: chapterViews,
		BookViews:    bookViews,
	}, nil
}

// ToggleChapterLike flips the user's like on a chapter.
func (s *EngagementService) ToggleChapterLike(ctx context.Context, userID, chapterID string) (*ToggleResult, error) {
	liked, likes, err := s.store.ToggleChapterLike(ctx, chapterID, userID, time.Now())
	if err != nil {
		return nil, notFound(err, "chapter")
	}
	return &ToggleResult{Liked: liked, Count: likes}, nil
}

// ToggleBookFavorite flips the user's favorite on a book.
func (s *EngagementService) ToggleBookFavorite(ctx context.Context, userID, bookID string) (*ToggleResult, error) {
	favorited, count, err := s.store.ToggleBookFavorite(ctx, bookID, userID, time.Now())
	if err != nil {
		return nil, notFound(err, "book")
	}
	return &ToggleResult{Liked: favorited, Count: count}, nil
}

// ToggleCommentLike flips the user's like on a comment.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, userID, commentID string) (*ToggleResult, error) {
	liked, likes, err := s.store.ToggleCommentLike(ctx, commentID, userID, time.Now())
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return &ToggleResult{Liked: liked, Count: likes}, nil
}
