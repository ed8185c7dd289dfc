package domain

import "time"

// SubjectKind identifies what an engagement event targets.
type SubjectKind string

// Subject kinds that accumulate engagement.
const (
	SubjectBook    SubjectKind = "book"
	SubjectChapter SubjectKind = "chapter"
)

// Valid reports whether the subject kind is recognized.
func (k SubjectKind) Valid() bool {
	return k == SubjectBook || k == SubjectChapter
}

// EventKind identifies the engagement action recorded.
type EventKind string

// Event kinds recorded in the engagement log.
const (
	EventView EventKind = "view"
	EventLike EventKind = "like"
)

// Valid reports whether the event kind is recognized.
func (k EventKind) Valid() bool {
	return k == EventView || k == EventLike
}

// EngagementEvent is an append-only record of a discrete engagement
// action. Events are never mutated; they are removed only when their
// owning book is deleted. BookID is denormalized so per-book rollups
// can hit a single (book_id, occurred_at) index instead of joining
// through chapters.
type EngagementEvent struct {
	ID          string      `json:"id"`
	SubjectID   string      `json:"subject_id"`
	SubjectKind SubjectKind `json:"subject_kind"`
	BookID      string      `json:"book_id"`
	Kind        EventKind   `json:"kind"`
	ActorID     string      `json:"actor_id,omitempty"` // empty for anonymous views
	OccurredAt  time.Time   `json:"occurred_at"`
}
