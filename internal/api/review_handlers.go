package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// UpsertReviewRequest is the payload for rating a book.
type UpsertReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"max=5000"`
}

// RatingAggregate reports a book's recomputed rating after a mutation.
type RatingAggregate struct {
	Rating       float64 `json:"rating"`
	TotalRatings int64   `json:"total_ratings"`
}

// handleUpsertReview creates or replaces the caller's review.
func (s *Server) handleUpsertReview(w http.ResponseWriter, r *http.Request) {
	var req UpsertReviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.services.Reviews.UpsertReview(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Rating, req.Text)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if result.Created {
		response.Created(w, result, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}

// handleGetOwnReview returns the caller's review of a book, if any.
func (s *Server) handleGetOwnReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.services.Reviews.GetReview(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, review, s.logger)
}

// handleListReviews lists a book's reviews.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.services.Reviews.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reviews, s.logger)
}

// handleDeleteOwnReview removes the caller's review of a book.
func (s *Server) handleDeleteOwnReview(w http.ResponseWriter, r *http.Request) {
	rating, total, err := s.services.Reviews.DeleteReview(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, RatingAggregate{Rating: rating, TotalRatings: total}, s.logger)
}

// handleDeleteReviewByID removes a review by ID (owner, book author,
// or moderator).
func (s *Server) handleDeleteReviewByID(w http.ResponseWriter, r *http.Request) {
	rating, total, err := s.services.Reviews.DeleteReviewByID(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, RatingAggregate{Rating: rating, TotalRatings: total}, s.logger)
}
