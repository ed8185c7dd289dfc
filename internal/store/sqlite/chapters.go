package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// chapterColumns is the ordered list of columns selected in chapter queries.
// Must match the scan order in scanChapter.
const chapterColumns = `id, book_id, title, content, position, views, likes, comments_count, created_at`

// scanChapter scans a sql.Row (or sql.Rows via its Scan method) into a domain.Chapter.
func scanChapter(scanner interface{ Scan(dest ...any) error }) (*domain.Chapter, error) {
	var c domain.Chapter

	var createdAt string

	err := scanner.Scan(
		&c.ID,
		&c.BookID,
		&c.Title,
		&c.Content,
		&c.Order,
		&c.Views,
		&c.Likes,
		&c.CommentsCount,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateChapter inserts a new chapter at the end of the book.
// The position is assigned inside the transaction so concurrent inserts
// never collide. The assigned position is written back to chapter.Order.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) CreateChapter(ctx context.Context, chapter *domain.Chapter) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM books WHERE id = ?`, chapter.BookID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position), 0) + 1 FROM chapters WHERE book_id = ?`,
			chapter.BookID).Scan(&chapter.Order)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO chapters (
				id, book_id, title, content, position, views, likes, comments_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			chapter.ID,
			chapter.BookID,
			chapter.Title,
			chapter.Content,
			chapter.Order,
			chapter.Views,
			chapter.Likes,
			chapter.CommentsCount,
			formatTime(chapter.CreatedAt),
		)
		if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	})
}

// GetChapter retrieves a chapter by ID.
// Returns store.ErrNotFound if the chapter does not exist.
func (s *Store) GetChapter(ctx context.Context, id string) (*domain.Chapter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE id = ?`, id)

	chapter, err := scanChapter(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

// ListChaptersForBook retrieves all chapters of a book in reading order.
func (s *Store) ListChaptersForBook(ctx context.Context, bookID string) ([]*domain.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chapterColumns+` FROM chapters WHERE book_id = ? ORDER BY position`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*domain.Chapter
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chapters, nil
}

// UpdateChapter updates the title and content of a chapter.
// Returns store.ErrNotFound if the chapter does not exist.
func (s *Store) UpdateChapter(ctx context.Context, chapter *domain.Chapter) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE chapters SET title = ?, content = ? WHERE id = ?`,
		chapter.Title,
		chapter.Content,
		chapter.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteChapter removes a chapter and closes the gap in the position
// sequence of the remaining chapters.
// Returns store.ErrNotFound if the chapter does not exist.
func (s *Store) DeleteChapter(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var (
			bookID   string
			position int
		)
		err := tx.QueryRowContext(ctx,
			`SELECT book_id, position FROM chapters WHERE id = ?`, id).Scan(&bookID, &position)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE id = ?`, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE chapters SET position = position - 1 WHERE book_id = ? AND position > ?`,
			bookID, position)
		return err
	})
}

// IncrementChapterViews atomically bumps the view counter of a chapter
// and returns the updated value.
// Returns store.ErrNotFound if the chapter does not exist.
func (s *Store) IncrementChapterViews(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE chapters SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, store.ErrNotFound
	}

	var views int64
	err = s.db.QueryRowContext(ctx,
		`SELECT views FROM chapters WHERE id = ?`, id).Scan(&views)
	if err != nil {
		return 0, err
	}
	return views, nil
}
