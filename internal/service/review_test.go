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

func newTestReviews(t *testing.T) (*ReviewService, *sqlite.Store) {
	t.Helper()

	st := newTestSQLite(t)
	return NewReviewService(st, discardLogger()), st
}

func TestUpsertReview_RatingBounds(t *testing.T) {
	svc, st := newTestReviews(t)
	reader := createTestUser(t, st, domain.RoleReader)
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.UpsertReview(context.Background(), reader.ID, book.ID, rating, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestUpsertReview_CreateThenReplace(t *testing.T) {
	svc, st := newTestReviews(t)
	ctx := context.Background()
	reader := createTestUser(t, st, domain.RoleReader)
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	first, err := svc.UpsertReview(ctx, reader.ID, book.ID, 4, "solid")
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.InDelta(t, 4.0, first.Rating, 0.001)
	assert.Equal(t, int64(1), first.TotalRatings)

	second, err := svc.UpsertReview(ctx, reader.ID, book.ID, 5, "better on reread")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Review.ID, second.Review.ID)
	assert.InDelta(t, 5.0, second.Rating, 0.001)
	// Replacing a review never raises the reviewer count.
	assert.Equal(t, int64(1), second.TotalRatings)
}

func TestUpsertReview_BookNotFound(t *testing.T) {
	svc, st := newTestReviews(t)
	reader := createTestUser(t, st, domain.RoleReader)

	_, err := svc.UpsertReview(context.Background(), reader.ID, "bk-missing", 4, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewAggregateLifecycle(t *testing.T) {
	svc, st := newTestReviews(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	readers := make([]*domain.User, 3)
	for i, rating := range []int{4, 5, 3} {
		readers[i] = createTestUser(t, st, domain.RoleReader)
		result, err := svc.UpsertReview(ctx, readers[i].ID, book.ID, rating, "")
		require.NoError(t, err)
		if i == 2 {
			assert.InDelta(t, 4.0, result.Rating, 0.001)
			assert.Equal(t, int64(3), result.TotalRatings)
		}
	}

	// Dropping the 3 leaves [4 5].
	avg, total, err := svc.DeleteReview(ctx, readers[2].ID, book.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.Equal(t, int64(2), total)

	for _, r := range readers[:2] {
		avg, total, err = svc.DeleteReview(ctx, r.ID, book.ID)
		require.NoError(t, err)
	}
	assert.Zero(t, avg)
	assert.Zero(t, total)

	got, err := st.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Rating)
	assert.Zero(t, got.TotalRatings)
}

func TestDeleteReview_NotFound(t *testing.T) {
	svc, st := newTestReviews(t)
	reader := createTestUser(t, st, domain.RoleReader)
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	_, _, err := svc.DeleteReview(context.Background(), reader.ID, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteReviewByID_Permissions(t *testing.T) {
	svc, st := newTestReviews(t)
	ctx := context.Background()
	author := createTestUser(t, st, domain.RoleAuthor)
	reviewer := createTestUser(t, st, domain.RoleReader)
	stranger := createTestUser(t, st, domain.RoleReader)
	moderator := createTestUser(t, st, domain.RoleModerator)
	book := createTestBook(t, st, author.ID)

	post := func() string {
		t.Helper()
		result, err := svc.UpsertReview(ctx, reviewer.ID, book.ID, 4, "")
		require.NoError(t, err)
		return result.Review.ID
	}

	reviewID := post()
	_, _, err := svc.DeleteReviewByID(ctx, stranger.ID, reviewID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Owner, book author, and moderator may all curate.
	for _, actor := range []*domain.User{reviewer, author, moderator} {
		reviewID = post()
		_, total, err := svc.DeleteReviewByID(ctx, actor.ID, reviewID)
		require.NoError(t, err)
		assert.Zero(t, total)
	}
}

func TestGetReview(t *testing.T) {
	svc, st := newTestReviews(t)
	ctx := context.Background()
	reader := createTestUser(t, st, domain.RoleReader)
	author := createTestUser(t, st, domain.RoleAuthor)
	book := createTestBook(t, st, author.ID)

	_, err := svc.GetReview(ctx, reader.ID, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.UpsertReview(ctx, reader.ID, book.ID, 5, "loved it")
	require.NoError(t, err)

	review, err := svc.GetReview(ctx, reader.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "loved it", review.Text)
}
