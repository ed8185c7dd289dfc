// Package search provides full-text book discovery using Bleve: title
// and author matching with fuzzy tolerance, plus genre and kind facets
// for the browse surface.
package search

import (
	"github.com/inkwell-app/inkwell-server/internal/domain"
)

// BookDocument is the shape of a book in the Bleve index. Author name
// is denormalized so a single query covers both title and author
// searches without a store round trip.
type BookDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`

	// Keyword facets
	Kind      string `json:"kind"`
	Genre     string `json:"genre,omitempty"`
	AgeRating string `json:"age_rating"`

	// Numeric fields for sorting
	Views     int64   `json:"views"`
	Rating    float64 `json:"rating"`
	CreatedAt int64   `json:"created_at"` // Unix millis
}

// NewBookDocument builds an index document from a book and its author's
// display name.
func NewBookDocument(book *domain.Book, authorName string) *BookDocument {
	return &BookDocument{
		ID:          book.ID,
		Title:       book.Title,
		Author:      authorName,
		Description: book.Description,
		Kind:        string(book.Kind),
		Genre:       book.Genre,
		AgeRating:   string(book.AgeRating),
		Views:       book.Views,
		Rating:      book.Rating,
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names so
// they line up with the index mapping. Bleve would otherwise index the
// capitalized Go field names.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"kind":       d.Kind,
		"age_rating": d.AgeRating,
		"views":      d.Views,
		"rating":     d.Rating,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	return m
}
