package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
)

func TestEnsureLibrary_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	reader := seedUser(t, s, "sage")

	lib1, err := s.EnsureLibrary(ctx, reader.ID, time.Now())
	if err != nil {
		t.Fatalf("EnsureLibrary: %v", err)
	}
	lib2, err := s.EnsureLibrary(ctx, reader.ID, time.Now())
	if err != nil {
		t.Fatalf("EnsureLibrary: %v", err)
	}
	if lib1.ID != lib2.ID {
		t.Errorf("library IDs differ: %q vs %q", lib1.ID, lib2.ID)
	}
}

func TestTouchHistory_ReplacesAndCaps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	lib, err := s.EnsureLibrary(ctx, reader.ID, time.Now())
	if err != nil {
		t.Fatalf("EnsureLibrary: %v", err)
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	books := make([]*domain.Book, domain.HistoryCap+3)
	for i := range books {
		books[i] = seedBook(t, s, author.ID, fmt.Sprintf("Book %02d", i))
		if err := s.TouchHistory(ctx, lib.ID, books[i].ID, "", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("TouchHistory %d: %v", i, err)
		}
	}

	entries, err := s.ListHistory(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != domain.HistoryCap {
		t.Fatalf("history size: got %d, want %d", len(entries), domain.HistoryCap)
	}
	// Most recent first, oldest evicted.
	if entries[0].BookID != books[len(books)-1].ID {
		t.Errorf("head: got %q, want %q", entries[0].BookID, books[len(books)-1].ID)
	}
	for _, e := range entries {
		if e.BookID == books[0].ID || e.BookID == books[1].ID || e.BookID == books[2].ID {
			t.Errorf("book %q should have been evicted", e.BookID)
		}
	}

	// Re-reading an existing book replaces its entry instead of adding one.
	target := entries[len(entries)-1].BookID
	if err := s.TouchHistory(ctx, lib.ID, target, "", base.Add(1000*time.Hour)); err != nil {
		t.Fatalf("TouchHistory: %v", err)
	}
	entries, err = s.ListHistory(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != domain.HistoryCap {
		t.Errorf("history size after touch: got %d, want %d", len(entries), domain.HistoryCap)
	}
	if entries[0].BookID != target {
		t.Errorf("touched book should be first, got %q", entries[0].BookID)
	}
}

func TestTouchHistory_RecordsChapter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Read Book")
	ch := seedChapter(t, s, b.ID, "One")
	lib, err := s.EnsureLibrary(ctx, reader.ID, time.Now())
	if err != nil {
		t.Fatalf("EnsureLibrary: %v", err)
	}

	if err := s.TouchHistory(ctx, lib.ID, b.ID, ch.ID, time.Now()); err != nil {
		t.Fatalf("TouchHistory: %v", err)
	}

	entries, err := s.ListHistory(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].LastReadChapterID != ch.ID {
		t.Errorf("LastReadChapterID: got %q, want %q", entries[0].LastReadChapterID, ch.ID)
	}
}

func TestToggleCollection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	b := seedBook(t, s, author.ID, "Collected Book")
	lib, err := s.EnsureLibrary(ctx, reader.ID, time.Now())
	if err != nil {
		t.Fatalf("EnsureLibrary: %v", err)
	}

	added, err := s.ToggleCollection(ctx, lib.ID, b.ID, "", time.Now())
	if err != nil {
		t.Fatalf("ToggleCollection: %v", err)
	}
	if !added {
		t.Error("first toggle should add")
	}

	in, err := s.IsInCollection(ctx, lib.ID, b.ID)
	if err != nil {
		t.Fatalf("IsInCollection: %v", err)
	}
	if !in {
		t.Error("book should be in collection")
	}

	added, err = s.ToggleCollection(ctx, lib.ID, b.ID, "", time.Now())
	if err != nil {
		t.Fatalf("ToggleCollection: %v", err)
	}
	if added {
		t.Error("second toggle should remove")
	}

	entries, err := s.ListCollection(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListCollection: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("collection should be empty, got %d", len(entries))
	}
}

func TestToggleCollection_Cap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	reader := seedUser(t, s, "sage")
	lib, err := s.EnsureLibrary(ctx, reader.ID, time.Now())
	if err != nil {
		t.Fatalf("EnsureLibrary: %v", err)
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var first *domain.Book
	for i := range domain.CollectionCap + 1 {
		b := seedBook(t, s, author.ID, fmt.Sprintf("Book %03d", i))
		if i == 0 {
			first = b
		}
		if _, err := s.ToggleCollection(ctx, lib.ID, b.ID, "", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("ToggleCollection %d: %v", i, err)
		}
	}

	entries, err := s.ListCollection(ctx, lib.ID)
	if err != nil {
		t.Fatalf("ListCollection: %v", err)
	}
	if len(entries) != domain.CollectionCap {
		t.Errorf("collection size: got %d, want %d", len(entries), domain.CollectionCap)
	}

	in, err := s.IsInCollection(ctx, lib.ID, first.ID)
	if err != nil {
		t.Fatalf("IsInCollection: %v", err)
	}
	if in {
		t.Error("oldest entry should have been evicted")
	}
}

func TestGetCollectionAddTimesForBookInRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := seedUser(t, s, "rowan")
	b := seedBook(t, s, author.ID, "Collected Book")

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"uma", "vic", "wen"} {
		u := seedUser(t, s, name)
		lib, err := s.EnsureLibrary(ctx, u.ID, base)
		if err != nil {
			t.Fatalf("EnsureLibrary: %v", err)
		}
		if _, err := s.ToggleCollection(ctx, lib.ID, b.ID, "", base.Add(time.Duration(i)*24*time.Hour)); err != nil {
			t.Fatalf("ToggleCollection: %v", err)
		}
	}

	times, err := s.GetCollectionAddTimesForBookInRange(ctx, b.ID, base, base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("GetCollectionAddTimesForBookInRange: %v", err)
	}
	if len(times) != 2 {
		t.Errorf("got %d times, want 2", len(times))
	}
}
