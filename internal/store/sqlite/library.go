package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// EnsureLibrary returns the user's library, creating it on first use.
func (s *Store) EnsureLibrary(ctx context.Context, userID string, now time.Time) (*domain.Library, error) {
	var lib domain.Library
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var createdAt string
		err := tx.QueryRowContext(ctx,
			`SELECT id, user_id, created_at FROM libraries WHERE user_id = ?`,
			userID).Scan(&lib.ID, &lib.UserID, &createdAt)
		if err == nil {
			lib.CreatedAt, err = parseTime(createdAt)
			return err
		}
		if err != sql.ErrNoRows {
			return err
		}

		lib = domain.Library{
			ID:        id.MustGenerate(id.PrefixLibrary),
			UserID:    userID,
			CreatedAt: now,
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO libraries (id, user_id, created_at) VALUES (?, ?, ?)`,
			lib.ID, lib.UserID, formatTime(lib.CreatedAt))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &lib, nil
}

// TouchHistory records that a book was read, replacing any prior entry
// for the same book and evicting the oldest entries beyond the history
// cap. chapterID may be empty when the book was opened without a
// specific chapter.
func (s *Store) TouchHistory(ctx context.Context, libraryID, bookID, chapterID string, now time.Time) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO library_history (library_id, book_id, last_read_chapter_id, last_read_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (library_id, book_id) DO UPDATE SET
				last_read_chapter_id = excluded.last_read_chapter_id,
				last_read_at = excluded.last_read_at`,
			libraryID, bookID, nullString(chapterID), formatTime(now))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM library_history
			WHERE library_id = ? AND rowid NOT IN (
				SELECT rowid FROM library_history
				WHERE library_id = ?
				ORDER BY last_read_at DESC
				LIMIT ?
			)`,
			libraryID, libraryID, domain.HistoryCap)
		return err
	})
}

// ListHistory retrieves a library's reading history, most recent first.
func (s *Store) ListHistory(ctx context.Context, libraryID string) ([]*domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT library_id, book_id, last_read_chapter_id, last_read_at
		FROM library_history
		WHERE library_id = ?
		ORDER BY last_read_at DESC`,
		libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.HistoryEntry
	for rows.Next() {
		var (
			e         domain.HistoryEntry
			chapterID sql.NullString
			readAt    string
		)
		if err := rows.Scan(&e.LibraryID, &e.BookID, &chapterID, &readAt); err != nil {
			return nil, err
		}
		e.LastReadChapterID = chapterID.String
		e.LastReadAt, err = parseTime(readAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ToggleCollection flips a book's membership in a library's collection.
// Adding beyond the collection cap evicts the oldest entries. Reports
// the new membership state.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) ToggleCollection(ctx context.Context, libraryID, bookID, chapterID string, now time.Time) (bool, error) {
	var added bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM books WHERE id = ?`, bookID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM library_collection WHERE library_id = ? AND book_id = ?`,
			libraryID, bookID)
		if err != nil {
			return err
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if removed > 0 {
			added = false
			return nil
		}

		added = true
		_, err = tx.ExecContext(ctx, `
			INSERT INTO library_collection (library_id, book_id, last_read_chapter_id, added_at)
			VALUES (?, ?, ?, ?)`,
			libraryID, bookID, nullString(chapterID), formatTime(now))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM library_collection
			WHERE library_id = ? AND rowid NOT IN (
				SELECT rowid FROM library_collection
				WHERE library_id = ?
				ORDER BY added_at DESC
				LIMIT ?
			)`,
			libraryID, libraryID, domain.CollectionCap)
		return err
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// ListCollection retrieves a library's collection, most recently added first.
func (s *Store) ListCollection(ctx context.Context, libraryID string) ([]*domain.CollectionEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT library_id, book_id, last_read_chapter_id, added_at
		FROM library_collection
		WHERE library_id = ?
		ORDER BY added_at DESC`,
		libraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CollectionEntry
	for rows.Next() {
		var (
			e         domain.CollectionEntry
			chapterID sql.NullString
			addedAt   string
		)
		if err := rows.Scan(&e.LibraryID, &e.BookID, &chapterID, &addedAt); err != nil {
			return nil, err
		}
		e.LastReadChapterID = chapterID.String
		e.AddedAt, err = parseTime(addedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountCollection returns the number of books in a library's collection.
func (s *Store) CountCollection(ctx context.Context, libraryID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM library_collection WHERE library_id = ?`, libraryID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// IsInCollection reports whether a book is in a library's collection.
func (s *Store) IsInCollection(ctx context.Context, libraryID, bookID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM library_collection WHERE library_id = ? AND book_id = ?`,
		libraryID, bookID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetCollectionAddTimesForBookInRange returns, across all libraries,
// the times a book was added to a collection within [start, end).
func (s *Store) GetCollectionAddTimesForBookInRange(ctx context.Context, bookID string, start, end time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT added_at FROM library_collection
		WHERE book_id = ? AND added_at >= ? AND added_at < ?`,
		bookID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		t, err := parseTime(raw)
		if err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return times, nil
}
