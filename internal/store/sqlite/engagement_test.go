package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
)

// seedEvent appends a view event for a chapter of the given book.
func seedEvent(t *testing.T, s *Store, bookID, subjectID string, kind domain.EventKind, at time.Time) {
	t.Helper()
	e := &domain.EngagementEvent{
		ID:          id.MustGenerate(id.PrefixEvent),
		SubjectID:   subjectID,
		SubjectKind: domain.SubjectChapter,
		BookID:      bookID,
		Kind:        kind,
		OccurredAt:  at,
	}
	if err := s.AppendEvent(context.Background(), e); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
}

func TestGetEventsForBookInRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Tracked Book")
	ch := seedChapter(t, s, b.ID, "One")

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedEvent(t, s, b.ID, ch.ID, domain.EventView, base.Add(-time.Second)) // before range
	seedEvent(t, s, b.ID, ch.ID, domain.EventView, base)                   // inclusive start
	seedEvent(t, s, b.ID, ch.ID, domain.EventLike, base.Add(12*time.Hour))
	seedEvent(t, s, b.ID, ch.ID, domain.EventView, base.Add(24*time.Hour)) // exclusive end

	events, err := s.GetEventsForBookInRange(ctx, b.ID, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("GetEventsForBookInRange: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != domain.EventView || events[1].Kind != domain.EventLike {
		t.Errorf("events out of order: %s, %s", events[0].Kind, events[1].Kind)
	}
	if !events[0].OccurredAt.Equal(base) {
		t.Errorf("OccurredAt: got %v, want %v", events[0].OccurredAt, base)
	}
}

func TestGetEventsForBookInRange_SubSecondBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Tracked Book")
	ch := seedChapter(t, s, b.ID, "One")

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	// An event half a second after midnight must land inside a range
	// starting at midnight. This breaks if timestamps are stored with
	// trimmed fractional seconds.
	seedEvent(t, s, b.ID, ch.ID, domain.EventView, base.Add(500*time.Millisecond))

	events, err := s.GetEventsForBookInRange(ctx, b.ID, base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("GetEventsForBookInRange: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
}

func TestCountEventsForBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Tracked Book")
	ch := seedChapter(t, s, b.ID, "One")

	now := time.Now()
	seedEvent(t, s, b.ID, ch.ID, domain.EventView, now)
	seedEvent(t, s, b.ID, ch.ID, domain.EventView, now)
	seedEvent(t, s, b.ID, ch.ID, domain.EventLike, now)

	views, err := s.CountEventsForBook(ctx, b.ID, domain.EventView)
	if err != nil {
		t.Fatalf("CountEventsForBook: %v", err)
	}
	if views != 2 {
		t.Errorf("views: got %d, want 2", views)
	}

	all, err := s.CountEventsForBook(ctx, b.ID, "")
	if err != nil {
		t.Fatalf("CountEventsForBook: %v", err)
	}
	if all != 3 {
		t.Errorf("all: got %d, want 3", all)
	}
}

func TestDeleteBook_RemovesEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Tracked Book")
	ch := seedChapter(t, s, b.ID, "One")

	seedEvent(t, s, b.ID, ch.ID, domain.EventView, time.Now())

	if err := s.DeleteBook(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	count, err := s.CountEventsForBook(ctx, b.ID, "")
	if err != nil {
		t.Fatalf("CountEventsForBook: %v", err)
	}
	if count != 0 {
		t.Errorf("events should cascade with the book, got %d", count)
	}
}
