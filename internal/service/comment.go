package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// maxCommentLength bounds comment content.
const maxCommentLength = 2000

// CommentService manages chapter comments.
type CommentService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store *sqlite.Store, logger *slog.Logger) *CommentService {
	return &CommentService{store: store, logger: logger}
}

// CommentResult pairs a comment with the chapter's updated count.
type CommentResult struct {
	Comment       *domain.Comment `json:"comment"`
	CommentsCount int64           `json:"comments_count"`
}

// AddComment posts a comment on a chapter. Content is trimmed and must
// not be empty; the chapter comment counter moves in the same
// transaction as the insert.
func (s *CommentService) AddComment(ctx context.Context, userID, chapterID, content string) (*CommentResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("comment must not be empty")
	}
	if len(content) > maxCommentLength {
		return nil, apperrors.Validationf("comment exceeds %d characters", maxCommentLength)
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}

	comment := &domain.Comment{
		ID:        id.MustGenerate(id.PrefixComment),
		ChapterID: chapterID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	count, err := s.store.CreateComment(ctx, comment)
	if err != nil {
		return nil, notFound(err, "chapter")
	}

	return &CommentResult{Comment: comment, CommentsCount: count}, nil
}

// ListComments returns a chapter's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, chapterID string) ([]*domain.Comment, error) {
	if _, err := s.store.GetChapter(ctx, chapterID); err != nil {
		return nil, notFound(err, "chapter")
	}
	return s.store.ListCommentsForChapter(ctx, chapterID)
}

// DeleteComment removes a comment. Allowed for the comment owner or a
// moderator; the chapter counter decrements in the same transaction.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID string) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return notFound(err, "comment")
	}

	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return notFound(err, "user")
	}
	if actor.ID != comment.UserID && !actor.IsModerator() {
		return apperrors.Forbidden("not the comment owner")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return notFound(err, "comment")
	}
	return nil
}
