package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, author_id, title, kind, genre, age_rating, description,
	views, favorites_count, rating, total_ratings, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&b.ID,
		&b.AuthorID,
		&b.Title,
		&b.Kind,
		&b.Genre,
		&b.AgeRating,
		&b.Description,
		&b.Views,
		&b.FavoritesCount,
		&b.Rating,
		&b.TotalRatings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, author_id, title, kind, genre, age_rating, description,
			views, favorites_count, rating, total_ratings, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.AuthorID,
		book.Title,
		book.Kind,
		book.Genre,
		book.AgeRating,
		book.Description,
		book.Views,
		book.FavoritesCount,
		book.Rating,
		book.TotalRatings,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks retrieves books ordered by creation time descending.
func (s *Store) ListBooks(ctx context.Context, limit, offset int) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// ListBooksByAuthor retrieves all books by an author, newest first.
func (s *Store) ListBooksByAuthor(ctx context.Context, authorID string) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE author_id = ? ORDER BY created_at DESC`,
		authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook updates the mutable fields of a book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?,
			kind = ?,
			genre = ?,
			age_rating = ?,
			description = ?,
			updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.Kind,
		book.Genre,
		book.AgeRating,
		book.Description,
		formatTime(book.UpdatedAt),
		book.ID,
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

// DeleteBook removes a book. Chapters, comments, likes, reviews, events
// and library entries cascade via foreign keys.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
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

// IncrementBookViews atomically bumps the view counter of a book and
// returns the updated value.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) IncrementBookViews(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE books SET views = views + 1 WHERE id = ?`, id)
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
		`SELECT views FROM books WHERE id = ?`, id).Scan(&views)
	if err != nil {
		return 0, err
	}
	return views, nil
}
