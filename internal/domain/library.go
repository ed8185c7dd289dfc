package domain

import "time"

// Library caps. Insertion past a cap evicts the oldest entry.
const (
	HistoryCap    = 15
	CollectionCap = 100
)

// Library is a user's personal shelf space, created on first use.
type Library struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry records a recently read book. Reading a book again
// moves its entry to the front; at most HistoryCap entries survive,
// ordered by LastReadAt descending.
type HistoryEntry struct {
	LibraryID         string    `json:"library_id"`
	BookID            string    `json:"book_id"`
	LastReadChapterID string    `json:"last_read_chapter_id,omitempty"`
	LastReadAt        time.Time `json:"last_read_at"`
}

// CollectionEntry is a bookmarked book, unique per (library, book).
// At most CollectionCap entries survive, ordered by AddedAt descending.
type CollectionEntry struct {
	LibraryID         string    `json:"library_id"`
	BookID            string    `json:"book_id"`
	LastReadChapterID string    `json:"last_read_chapter_id,omitempty"`
	AddedAt           time.Time `json:"added_at"`
}
