package domain

import "time"

// BookKind categorizes a published work.
type BookKind string

// Book kinds supported by the platform.
const (
	BookKindNovel      BookKind = "novel"
	BookKindComic      BookKind = "comic"
	BookKindShortStory BookKind = "shortstory"
)

// Valid reports whether the kind is a recognized value.
func (k BookKind) Valid() bool {
	switch k {
	case BookKindNovel, BookKindComic, BookKindShortStory:
		return true
	default:
		return false
	}
}

// AgeRating is the audience restriction attached to a book.
type AgeRating string

// Age ratings supported by the platform.
const (
	AgeRatingAll AgeRating = "all"
	AgeRating13  AgeRating = "13+"
	AgeRating16  AgeRating = "16+"
	AgeRating18  AgeRating = "18+"
)

// Valid reports whether the rating is a recognized value.
func (r AgeRating) Valid() bool {
	switch r {
	case AgeRatingAll, AgeRating13, AgeRating16, AgeRating18:
		return true
	default:
		return false
	}
}

// Book represents a published work.
//
// Views, FavoritesCount, Rating, and TotalRatings are denormalized
// counters maintained by the store. They are presentation caches: the
// favorites membership set, the review rows, and the engagement event
// log remain the source of truth, and the counters must converge to
// their cardinality once concurrent operations settle.
type Book struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	Title          string    `json:"title"`
	Kind           BookKind  `json:"kind"`
	Genre          string    `json:"genre"`
	AgeRating      AgeRating `json:"age_rating"`
	Description    string    `json:"description,omitempty"`
	Views          int64     `json:"views"`
	FavoritesCount int64     `json:"favorites_count"`
	Rating         float64   `json:"rating"`
	TotalRatings   int64     `json:"total_ratings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Chapter represents one installment of a book.
// Order is 1-based and contiguous within a book.
type Chapter struct {
	ID            string    `json:"id"`
	BookID        string    `json:"book_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Order         int       `json:"order"`
	Views         int64     `json:"views"`
	Likes         int64     `json:"likes"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}
