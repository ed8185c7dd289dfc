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

// ReviewService manages book reviews and the rating aggregate they
// feed. Every review mutation recomputes the book's average rating
// from the full review set.
type ReviewService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store *sqlite.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{store: store, logger: logger}
}

// ReviewResult carries a review mutation's outcome plus the book's
// recomputed rating aggregate.
type ReviewResult struct {
	Review       *domain.Review `json:"review"`
	Created      bool           `json:"created"`
	Rating       float64        `json:"rating"`
	TotalRatings int64          `json:"total_ratings"`
}

// UpsertReview creates or replaces the caller's review of a book.
// A second submission by the same user overwrites the first instead
// of stacking, so TotalRatings counts distinct reviewers.
func (s *ReviewService) UpsertReview(ctx context.Context, userID, bookID string, rating int, text string) (*ReviewResult, error) {
	if !domain.ValidRating(rating) {
		return nil, apperrors.Validationf("rating must be between %d and %d", domain.MinReviewRating, domain.MaxReviewRating)
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}

	now := time.Now()
	review := &domain.Review{
		ID:        id.MustGenerate(id.PrefixReview),
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, avg, total, err := s.store.UpsertReview(ctx, review)
	if err != nil {
		return nil, notFound(err, "book")
	}

	s.logger.Info("review saved",
		"book_id", bookID,
		"user_id", userID,
		"rating", rating,
		"created", created)

	return &ReviewResult{Review: review, Created: created, Rating: avg, TotalRatings: total}, nil
}

// GetReview returns the caller's review of a book, if any.
func (s *ReviewService) GetReview(ctx context.Context, userID, bookID string) (*domain.Review, error) {
	review, err := s.store.GetReviewForUser(ctx, bookID, userID)
	if err != nil {
		return nil, notFound(err, "review")
	}
	return review, nil
}

// ListReviews returns all reviews of a book, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, bookID string) ([]*domain.Review, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, notFound(err, "book")
	}
	return s.store.ListReviewsForBook(ctx, bookID)
}

// DeleteReview removes the caller's own review of a book and
// recomputes the rating aggregate.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, bookID string) (float64, int64, error) {
	avg, total, err := s.store.DeleteReviewForUser(ctx, bookID, userID)
	if err != nil {
		return 0, 0, notFound(err, "review")
	}
	return avg, total, nil
}

// DeleteReviewByID removes a review by its ID. Allowed for the review
// owner, the book's author, or a moderator.
func (s *ReviewService) DeleteReviewByID(ctx context.Context, actorID, reviewID string) (float64, int64, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return 0, 0, notFound(err, "review")
	}
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return 0, 0, notFound(err, "user")
	}
	if actor.ID != review.UserID && !actor.IsModerator() {
		book, err := s.store.GetBook(ctx, review.BookID)
		if err != nil {
			return 0, 0, notFound(err, "book")
		}
		if book.AuthorID != actor.ID {
			return 0, 0, apperrors.Forbidden("not allowed to delete this review")
		}
	}

	avg, total, err := s.store.DeleteReview(ctx, reviewID)
	if err != nil {
		return 0, 0, notFound(err, "review")
	}
	return avg, total, nil
}
