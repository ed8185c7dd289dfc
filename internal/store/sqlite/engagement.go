package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/store"
)

// eventColumns is the ordered list of columns selected in engagement
// event queries. Must match the scan order in scanEvent.
const eventColumns = `id, subject_id, subject_kind, book_id, kind, actor_id, occurred_at`

// scanEvent scans a sql.Row (or sql.Rows via its Scan method) into a domain.EngagementEvent.
func scanEvent(scanner interface{ Scan(dest ...any) error }) (*domain.EngagementEvent, error) {
	var e domain.EngagementEvent

	var occurredAt string

	err := scanner.Scan(
		&e.ID,
		&e.SubjectID,
		&e.SubjectKind,
		&e.BookID,
		&e.Kind,
		&e.ActorID,
		&occurredAt,
	)
	if err != nil {
		return nil, err
	}

	e.OccurredAt, err = parseTime(occurredAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// AppendEvent inserts an engagement event into the log.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) AppendEvent(ctx context.Context, event *domain.EngagementEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engagement_events (id, subject_id, subject_kind, book_id, kind, actor_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.SubjectID,
		event.SubjectKind,
		event.BookID,
		event.Kind,
		event.ActorID,
		formatTime(event.OccurredAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetEventsForBookInRange retrieves all engagement events for a book
// with occurred_at in [start, end), oldest first. The range resolves on
// the (book_id, occurred_at) index, so cost is proportional to the
// window rather than the life of the book.
func (s *Store) GetEventsForBookInRange(ctx context.Context, bookID string, start, end time.Time) ([]*domain.EngagementEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM engagement_events
		WHERE book_id = ? AND occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at`,
		bookID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.EngagementEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountEventsForBook returns the total number of logged events for a
// book, optionally restricted to one kind. An empty kind counts all.
func (s *Store) CountEventsForBook(ctx context.Context, bookID string, kind domain.EventKind) (int64, error) {
	var count int64
	var err error
	if kind == "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM engagement_events WHERE book_id = ?`, bookID).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM engagement_events WHERE book_id = ? AND kind = ?`,
			bookID, kind).Scan(&count)
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
