package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/http/response"
	"github.com/inkwell-app/inkwell-server/internal/search"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

// CreateBookRequest is the payload for publishing a book.
type CreateBookRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Kind        string `json:"kind" validate:"required,oneof=novel comic shortstory"`
	Genre       string `json:"genre" validate:"max=50"`
	AgeRating   string `json:"age_rating" validate:"omitempty,oneof=all 13+ 16+ 18+"`
	Description string `json:"description" validate:"max=5000"`
}

// UpdateBookRequest carries partial book edits. Absent fields stay
// unchanged.
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Kind        *string `json:"kind,omitempty" validate:"omitempty,oneof=novel comic shortstory"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,max=50"`
	AgeRating   *string `json:"age_rating,omitempty" validate:"omitempty,oneof=all 13+ 16+ 18+"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
}

// handleBrowseBooks searches and filters the catalog.
func (s *Server) handleBrowseBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := search.DefaultBrowseParams()
	params.Query = q.Get("q")
	if kinds, ok := q["kind"]; ok {
		params.Kinds = kinds
	}
	params.Genre = q.Get("genre")
	params.AgeRating = q.Get("age_rating")
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= 100 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset >= 0 {
		params.Offset = offset
	}
	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order != "" {
		params.SortOrder = order
	}

	result, err := s.services.Books.Browse(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleCreateBook publishes a new book.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	book, err := s.services.Books.CreateBook(r.Context(), getUserID(r.Context()), service.CreateBookInput{
		Title:       req.Title,
		Kind:        domain.BookKind(req.Kind),
		Genre:       req.Genre,
		AgeRating:   domain.AgeRating(req.AgeRating),
		Description: req.Description,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleGetBook returns a book and counts the page open.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")

	book, err := s.services.Books.OpenBook(r.Context(), bookID, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleUpdateBook edits book metadata.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	in := service.UpdateBookInput{
		Title:       req.Title,
		Genre:       req.Genre,
		Description: req.Description,
	}
	if req.Kind != nil {
		kind := domain.BookKind(*req.Kind)
		in.Kind = &kind
	}
	if req.AgeRating != nil {
		rating := domain.AgeRating(*req.AgeRating)
		in.AgeRating = &rating
	}

	book, err := s.services.Books.UpdateBook(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook removes a book with all its content.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	err := s.services.Books.DeleteBook(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
