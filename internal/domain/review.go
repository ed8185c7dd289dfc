package domain

import "time"

// Review rating bounds.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a rated write-up of a book. Each user holds at most one
// review per book; the book's Rating/TotalRatings aggregate is
// recomputed from the full review set on every mutation.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRating reports whether a rating value is within bounds.
func ValidRating(rating int) bool {
	return rating >= MinReviewRating && rating <= MaxReviewRating
}
