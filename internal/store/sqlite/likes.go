package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// ToggleBookFavorite flips a user's favorite membership on a book and
// adjusts the denormalized favorites counter in the same transaction.
// Returns the new membership state and the updated counter.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) ToggleBookFavorite(ctx context.Context, bookID, userID string, now time.Time) (bool, int64, error) {
	var (
		favorited bool
		count     int64
	)
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
			`DELETE FROM book_favorites WHERE book_id = ? AND user_id = ?`,
			bookID, userID)
		if err != nil {
			return err
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if removed > 0 {
			favorited = false
			_, err = tx.ExecContext(ctx,
				`UPDATE books SET favorites_count = MAX(favorites_count - 1, 0) WHERE id = ?`,
				bookID)
		} else {
			favorited = true
			_, err = tx.ExecContext(ctx,
				`INSERT INTO book_favorites (book_id, user_id, created_at) VALUES (?, ?, ?)`,
				bookID, userID, formatTime(now))
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE books SET favorites_count = favorites_count + 1 WHERE id = ?`,
				bookID)
		}
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx,
			`SELECT favorites_count FROM books WHERE id = ?`, bookID).Scan(&count)
	})
	if err != nil {
		return false, 0, err
	}
	return favorited, count, nil
}

// ToggleChapterLike flips a user's like on a chapter and adjusts the
// like counter in the same transaction. Adding a like also appends a
// like event to the engagement log; removals leave the log untouched.
// Returns the new membership state and the updated counter.
// Returns store.ErrNotFound if the chapter does not exist.
func (s *Store) ToggleChapterLike(ctx context.Context, chapterID, userID string, now time.Time) (bool, int64, error) {
	var (
		liked bool
		likes int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var bookID string
		err := tx.QueryRowContext(ctx,
			`SELECT book_id FROM chapters WHERE id = ?`, chapterID).Scan(&bookID)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM chapter_likes WHERE chapter_id = ? AND user_id = ?`,
			chapterID, userID)
		if err != nil {
			return err
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if removed > 0 {
			liked = false
			_, err = tx.ExecContext(ctx,
				`UPDATE chapters SET likes = MAX(likes - 1, 0) WHERE id = ?`,
				chapterID)
			if err != nil {
				return err
			}
		} else {
			liked = true
			_, err = tx.ExecContext(ctx,
				`INSERT INTO chapter_likes (chapter_id, user_id, created_at) VALUES (?, ?, ?)`,
				chapterID, userID, formatTime(now))
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE chapters SET likes = likes + 1 WHERE id = ?`, chapterID)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO engagement_events (id, subject_id, subject_kind, book_id, kind, actor_id, occurred_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id.MustGenerate(id.PrefixEvent),
				chapterID,
				domain.SubjectChapter,
				bookID,
				domain.EventLike,
				userID,
				formatTime(now),
			)
			if err != nil {
				return err
			}
		}

		return tx.QueryRowContext(ctx,
			`SELECT likes FROM chapters WHERE id = ?`, chapterID).Scan(&likes)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

// ToggleCommentLike flips a user's like on a comment and adjusts the
// like counter in the same transaction.
// Returns the new membership state and the updated counter.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) ToggleCommentLike(ctx context.Context, commentID, userID string, now time.Time) (bool, int64, error) {
	var (
		liked bool
		likes int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM comments WHERE id = ?`, commentID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`,
			commentID, userID)
		if err != nil {
			return err
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if removed > 0 {
			liked = false
			_, err = tx.ExecContext(ctx,
				`UPDATE comments SET likes = MAX(likes - 1, 0) WHERE id = ?`,
				commentID)
		} else {
			liked = true
			_, err = tx.ExecContext(ctx,
				`INSERT INTO comment_likes (comment_id, user_id, created_at) VALUES (?, ?, ?)`,
				commentID, userID, formatTime(now))
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE comments SET likes = likes + 1 WHERE id = ?`, commentID)
		}
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx,
			`SELECT likes FROM comments WHERE id = ?`, commentID).Scan(&likes)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

// HasChapterLike reports whether a user currently likes a chapter.
func (s *Store) HasChapterLike(ctx context.Context, chapterID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM chapter_likes WHERE chapter_id = ? AND user_id = ?`,
		chapterID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasBookFavorite reports whether a user currently favorites a book.
func (s *Store) HasBookFavorite(ctx context.Context, bookID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM book_favorites WHERE book_id = ? AND user_id = ?`,
		bookID, userID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
