package sqlite

import (
	"context"
	"database/sql"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// reviewColumns is the ordered list of columns selected in review queries.
// Must match the scan order in scanReview.
const reviewColumns = `id, book_id, user_id, rating, text, created_at, updated_at`

// scanReview scans a sql.Row (or sql.Rows via its Scan method) into a domain.Review.
func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var r domain.Review

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.BookID,
		&r.UserID,
		&r.Rating,
		&r.Text,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// recomputeRatingTx recalculates a book's rating aggregate from its
// reviews inside an open transaction. A book with no reviews resets
// to zero.
func recomputeRatingTx(ctx context.Context, tx *sql.Tx, bookID string) (float64, int64, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE books SET
			rating = COALESCE((SELECT ROUND(AVG(rating), 2) FROM reviews WHERE book_id = ?), 0),
			total_ratings = (SELECT COUNT(*) FROM reviews WHERE book_id = ?)
		WHERE id = ?`,
		bookID, bookID, bookID)
	if err != nil {
		return 0, 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	if n == 0 {
		return 0, 0, store.ErrNotFound
	}

	var (
		rating float64
		total  int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT rating, total_ratings FROM books WHERE id = ?`, bookID).Scan(&rating, &total)
	return rating, total, err
}

// UpsertReview creates a review or updates the caller's existing review
// of the same book, recomputing the book's rating aggregate in the same
// transaction. Reports whether a new review was created and returns the
// new aggregate. On update the existing review ID and created_at are
// preserved and written back to the passed review.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpsertReview(ctx context.Context, review *domain.Review) (bool, float64, int64, error) {
	var (
		created bool
		rating  float64
		total   int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM books WHERE id = ?`, review.BookID).Scan(&exists)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		var (
			existingID string
			createdAt  string
		)
		err = tx.QueryRowContext(ctx,
			`SELECT id, created_at FROM reviews WHERE book_id = ? AND user_id = ?`,
			review.BookID, review.UserID).Scan(&existingID, &createdAt)
		switch {
		case err == sql.ErrNoRows:
			created = true
			_, err = tx.ExecContext(ctx, `
				INSERT INTO reviews (id, book_id, user_id, rating, text, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				review.ID,
				review.BookID,
				review.UserID,
				review.Rating,
				review.Text,
				formatTime(review.CreatedAt),
				formatTime(review.UpdatedAt),
			)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			review.ID = existingID
			review.CreatedAt, err = parseTime(createdAt)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`UPDATE reviews SET rating = ?, text = ?, updated_at = ? WHERE id = ?`,
				review.Rating,
				review.Text,
				formatTime(review.UpdatedAt),
				existingID,
			)
			if err != nil {
				return err
			}
		}

		rating, total, err = recomputeRatingTx(ctx, tx, review.BookID)
		return err
	})
	if err != nil {
		return false, 0, 0, err
	}
	return created, rating, total, nil
}

// GetReview retrieves a review by ID.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetReviewForUser retrieves a user's review of a book.
// Returns store.ErrNotFound if no review exists.
func (s *Store) GetReviewForUser(ctx context.Context, bookID, userID string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id = ? AND user_id = ?`,
		bookID, userID)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviewsForBook retrieves all reviews of a book, newest first.
func (s *Store) ListReviewsForBook(ctx context.Context, bookID string) ([]*domain.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id = ? ORDER BY created_at DESC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview removes a review by ID and recomputes the owning book's
// rating aggregate in the same transaction, returning the new aggregate.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) DeleteReview(ctx context.Context, id string) (float64, int64, error) {
	var (
		rating float64
		total  int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var bookID string
		err := tx.QueryRowContext(ctx,
			`SELECT book_id FROM reviews WHERE id = ?`, id).Scan(&bookID)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id); err != nil {
			return err
		}

		rating, total, err = recomputeRatingTx(ctx, tx, bookID)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return rating, total, nil
}

// DeleteReviewForUser removes a user's review of a book and recomputes
// the book's rating aggregate in the same transaction, returning the
// new aggregate.
// Returns store.ErrNotFound if no review exists.
func (s *Store) DeleteReviewForUser(ctx context.Context, bookID, userID string) (float64, int64, error) {
	var (
		rating float64
		total  int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`DELETE FROM reviews WHERE book_id = ? AND user_id = ?`, bookID, userID)
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

		rating, total, err = recomputeRatingTx(ctx, tx, bookID)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return rating, total, nil
}

// RecomputeBookRating recalculates a book's average rating and rating
// count from its reviews, for repairing a stale aggregate. The review
// mutations above already recompute inline.
// Returns the new average (rounded to two decimals) and count.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) RecomputeBookRating(ctx context.Context, bookID string) (float64, int64, error) {
	var (
		rating float64
		total  int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		rating, total, err = recomputeRatingTx(ctx, tx, bookID)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return rating, total, nil
}
