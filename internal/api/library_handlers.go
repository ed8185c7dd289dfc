package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// RecordReadingRequest marks a book as recently read.
type RecordReadingRequest struct {
	BookID    string `json:"book_id" validate:"required"`
	ChapterID string `json:"chapter_id"`
}

// ToggleCollectionRequest optionally records the reading position when
// bookmarking.
type ToggleCollectionRequest struct {
	ChapterID string `json:"chapter_id"`
}

// handleRecordReading moves a book to the front of the caller's
// reading history.
func (s *Server) handleRecordReading(w http.ResponseWriter, r *http.Request) {
	var req RecordReadingRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	err := s.services.Library.RecordReading(r.Context(), getUserID(r.Context()), req.BookID, req.ChapterID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListHistory lists the caller's recently read books.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.services.Library.History(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, history, s.logger)
}

// handleToggleCollection bookmarks a book or removes the bookmark.
// The body is optional.
func (s *Server) handleToggleCollection(w http.ResponseWriter, r *http.Request) {
	var req ToggleCollectionRequest
	if r.ContentLength > 0 {
		if !s.decodeAndValidate(w, r, &req) {
			return
		}
	}

	result, err := s.services.Library.ToggleCollection(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.ChapterID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleListCollection lists the caller's bookmarked books.
func (s *Server) handleListCollection(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Library.Collection(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}
