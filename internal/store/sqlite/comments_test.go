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

// seedComment inserts a comment and returns it.
func seedComment(t *testing.T, s *Store, chapterID, userID, content string) *domain.Comment {
	t.Helper()
	c := &domain.Comment{
		ID:        id.MustGenerate(id.PrefixComment),
		ChapterID: chapterID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if _, err := s.CreateComment(context.Background(), c); err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return c
}

func TestCreateComment_BumpsCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Discussed Book")
	ch := seedChapter(t, s, b.ID, "One")

	c := &domain.Comment{
		ID:        id.MustGenerate(id.PrefixComment),
		ChapterID: ch.ID,
		UserID:    reader.ID,
		Content:   "First!",
		CreatedAt: time.Now(),
	}
	count, err := s.CreateComment(ctx, c)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if count != 1 {
		t.Errorf("comment count: got %d, want 1", count)
	}

	seedComment(t, s, ch.ID, reader.ID, "Second thoughts.")

	got, err := s.GetChapter(ctx, ch.ID)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if got.CommentsCount != 2 {
		t.Errorf("CommentsCount: got %d, want 2", got.CommentsCount)
	}
}

func TestCreateComment_ChapterNotFound(t *testing.T) {
	s := newTestStore(t)

	reader := seedUser(t, s, "sage")
	c := &domain.Comment{
		ID:        id.MustGenerate(id.PrefixComment),
		ChapterID: "ch_missing",
		UserID:    reader.ID,
		Content:   "Into the void.",
		CreatedAt: time.Now(),
	}
	_, err := s.CreateComment(context.Background(), c)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteComment_DecrementsCounter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Discussed Book")
	ch := seedChapter(t, s, b.ID, "One")
	c := seedComment(t, s, ch.ID, reader.ID, "Delete me.")

	if err := s.DeleteComment(ctx, c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}

	got, err := s.GetChapter(ctx, ch.ID)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if got.CommentsCount != 0 {
		t.Errorf("CommentsCount: got %d, want 0", got.CommentsCount)
	}

	if err := s.DeleteComment(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestListCommentsForChapter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Discussed Book")
	ch := seedChapter(t, s, b.ID, "One")

	seedComment(t, s, ch.ID, reader.ID, "First")
	seedComment(t, s, ch.ID, author.ID, "Second")

	comments, err := s.ListCommentsForChapter(ctx, ch.ID)
	if err != nil {
		t.Fatalf("ListCommentsForChapter: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
}

func TestGetCommentTimesForBookInRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Discussed Book")
	ch := seedChapter(t, s, b.ID, "One")

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 24 * time.Hour, 72 * time.Hour} {
		c := &domain.Comment{
			ID:        id.MustGenerate(id.PrefixComment),
			ChapterID: ch.ID,
			UserID:    reader.ID,
			Content:   "comment",
			CreatedAt: base.Add(offset),
		}
		if _, err := s.CreateComment(ctx, c); err != nil {
			t.Fatalf("CreateComment %d: %v", i, err)
		}
	}

	// Range covers only the first two comments.
	times, err := s.GetCommentTimesForBookInRange(ctx, b.ID, base, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("GetCommentTimesForBookInRange: %v", err)
	}
	if len(times) != 2 {
		t.Errorf("got %d times, want 2", len(times))
	}
}
