package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// commentColumns is the ordered list of columns selected in comment queries.
// Must match the scan order in scanComment.
const commentColumns = `id, chapter_id, user_id, content, likes, created_at`

// scanComment scans a sql.Row (or sql.Rows via its Scan method) into a domain.Comment.
func scanComment(scanner interface{ Scan(dest ...any) error }) (*domain.Comment, error) {
	var c domain.Comment

	var createdAt string

	err := scanner.Scan(
		&c.ID,
		&c.ChapterID,
		&c.UserID,
		&c.Content,
		&c.Likes,
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

// CreateComment inserts a comment and bumps the chapter comment counter
// in the same transaction. Returns the updated comment count.
// Returns store.ErrNotFound if the chapter does not exist.
func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (int64, error) {
	var count int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE chapters SET comments_count = comments_count + 1 WHERE id = ?`,
			comment.ChapterID)
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

		_, err = tx.ExecContext(ctx, `
			INSERT INTO comments (id, chapter_id, user_id, content, likes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			comment.ID,
			comment.ChapterID,
			comment.UserID,
			comment.Content,
			comment.Likes,
			formatTime(comment.CreatedAt),
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}

		return tx.QueryRowContext(ctx,
			`SELECT comments_count FROM chapters WHERE id = ?`, comment.ChapterID).Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetComment retrieves a comment by ID.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)

	comment, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListCommentsForChapter retrieves all comments on a chapter, newest first.
func (s *Store) ListCommentsForChapter(ctx context.Context, chapterID string) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE chapter_id = ? ORDER BY created_at DESC`,
		chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment and decrements the chapter comment
// counter, clamping at zero.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var chapterID string
		err := tx.QueryRowContext(ctx,
			`SELECT chapter_id FROM comments WHERE id = ?`, id).Scan(&chapterID)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE chapters SET comments_count = MAX(comments_count - 1, 0) WHERE id = ?`,
			chapterID)
		return err
	})
}

// GetCommentTimesForBookInRange returns the creation times of all
// comments on a book's chapters within [start, end).
func (s *Store) GetCommentTimesForBookInRange(ctx context.Context, bookID string, start, end time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.created_at
		FROM comments c
		JOIN chapters ch ON ch.id = c.chapter_id
		WHERE ch.book_id = ? AND c.created_at >= ? AND c.created_at < ?`,
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
