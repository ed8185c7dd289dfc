package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// seedReview upserts a review and returns it alongside the created flag.
func seedReview(t *testing.T, s *Store, bookID, userID string, rating int) (*domain.Review, bool) {
	t.Helper()
	now := time.Now()
	r := &domain.Review{
		ID:        id.MustGenerate(id.PrefixReview),
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, _, _, err := s.UpsertReview(context.Background(), r)
	if err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}
	return r, created
}

func TestUpsertReview_CreateThenUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Rated Book")

	first, created := seedReview(t, s, b.ID, reader.ID, 4)
	if !created {
		t.Error("first upsert should create")
	}

	second, created := seedReview(t, s, b.ID, reader.ID, 5)
	if created {
		t.Error("second upsert should update")
	}
	if second.ID != first.ID {
		t.Errorf("update should keep review ID: got %q, want %q", second.ID, first.ID)
	}

	got, err := s.GetReviewForUser(ctx, b.ID, reader.ID)
	if err != nil {
		t.Fatalf("GetReviewForUser: %v", err)
	}
	if got.Rating != 5 {
		t.Errorf("rating: got %d, want 5", got.Rating)
	}
	if got.CreatedAt.Unix() != first.CreatedAt.Unix() {
		t.Errorf("created_at should survive update: got %v, want %v", got.CreatedAt, first.CreatedAt)
	}
}

func TestUpsertReview_BookNotFound(t *testing.T) {
	s := newTestStore(t)

	reader := seedUser(t, s, "sage")
	now := time.Now()
	r := &domain.Review{
		ID:        id.MustGenerate(id.PrefixReview),
		BookID:    "bk_missing",
		UserID:    reader.ID,
		Rating:    3,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, _, _, err := s.UpsertReview(context.Background(), r)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertReview_AggregateInTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Rated Book")
	uma := seedUser(t, s, "uma")
	vic := seedUser(t, s, "vic")

	now := time.Now()
	first := &domain.Review{
		ID: id.MustGenerate(id.PrefixReview), BookID: b.ID, UserID: uma.ID,
		Rating: 4, CreatedAt: now, UpdatedAt: now,
	}
	_, avg, total, err := s.UpsertReview(ctx, first)
	if err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}
	if avg != 4.0 || total != 1 {
		t.Errorf("after first review: got avg=%v total=%d, want 4.0/1", avg, total)
	}

	second := &domain.Review{
		ID: id.MustGenerate(id.PrefixReview), BookID: b.ID, UserID: vic.ID,
		Rating: 5, CreatedAt: now, UpdatedAt: now,
	}
	_, avg, total, err = s.UpsertReview(ctx, second)
	if err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}
	if avg != 4.5 || total != 2 {
		t.Errorf("after second review: got avg=%v total=%d, want 4.5/2", avg, total)
	}

	// The book row reflects the aggregate without a separate recompute.
	got, err := s.GetBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Rating != 4.5 || got.TotalRatings != 2 {
		t.Errorf("book row: got rating=%v total=%d, want 4.5/2", got.Rating, got.TotalRatings)
	}

	// Deletes return the post-delete aggregate from the same transaction.
	avg, total, err = s.DeleteReviewForUser(ctx, b.ID, vic.ID)
	if err != nil {
		t.Fatalf("DeleteReviewForUser: %v", err)
	}
	if avg != 4.0 || total != 1 {
		t.Errorf("after delete: got avg=%v total=%d, want 4.0/1", avg, total)
	}

	avg, total, err = s.DeleteReview(ctx, first.ID)
	if err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if avg != 0 || total != 0 {
		t.Errorf("after last delete: got avg=%v total=%d, want 0/0", avg, total)
	}
}

func TestRecomputeBookRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Rated Book")

	ratings := []int{4, 5, 3}
	readers := []string{"uma", "vic", "wen"}
	for i, rating := range ratings {
		u := seedUser(t, s, readers[i])
		seedReview(t, s, b.ID, u.ID, rating)
		if _, _, err := s.RecomputeBookRating(ctx, b.ID); err != nil {
			t.Fatalf("RecomputeBookRating: %v", err)
		}
	}

	avg, total, err := s.RecomputeBookRating(ctx, b.ID)
	if err != nil {
		t.Fatalf("RecomputeBookRating: %v", err)
	}
	if avg != 4.0 {
		t.Errorf("avg: got %v, want 4.0", avg)
	}
	if total != 3 {
		t.Errorf("total: got %d, want 3", total)
	}
}

func TestRecomputeBookRating_NoReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Rated Book")

	seedReview(t, s, b.ID, reader.ID, 5)
	if _, _, err := s.RecomputeBookRating(ctx, b.ID); err != nil {
		t.Fatalf("RecomputeBookRating: %v", err)
	}

	if _, _, err := s.DeleteReviewForUser(ctx, b.ID, reader.ID); err != nil {
		t.Fatalf("DeleteReviewForUser: %v", err)
	}

	avg, total, err := s.RecomputeBookRating(ctx, b.ID)
	if err != nil {
		t.Fatalf("RecomputeBookRating: %v", err)
	}
	if avg != 0 || total != 0 {
		t.Errorf("empty book should reset, got avg=%v total=%d", avg, total)
	}
}

func TestDeleteReviewForUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Rated Book")

	_, _, err := s.DeleteReviewForUser(context.Background(), b.ID, "usr_missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecomputeBookRating_Rounding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Rated Book")

	// 5, 4, 4 averages to 4.333..., stored as 4.33.
	for i, rating := range []int{5, 4, 4} {
		u := seedUser(t, s, "reader"+string(rune('a'+i)))
		seedReview(t, s, b.ID, u.ID, rating)
	}

	avg, _, err := s.RecomputeBookRating(ctx, b.ID)
	if err != nil {
		t.Fatalf("RecomputeBookRating: %v", err)
	}
	if avg != 4.33 {
		t.Errorf("avg: got %v, want 4.33", avg)
	}
}
