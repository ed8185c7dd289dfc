package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// ChapterRequest is the payload for adding or editing a chapter.
type ChapterRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required"`
}

// handleAddChapter appends a chapter to the end of a book.
func (s *Server) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	var req ChapterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	chapter, err := s.services.Books.AddChapter(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, chapter, s.logger)
}

// handleGetChapter returns a chapter with its content.
func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	chapter, err := s.services.Books.GetChapter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, chapter, s.logger)
}

// handleListChapters lists a book's chapters in reading order.
func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.services.Books.ListChapters(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, chapters, s.logger)
}

// handleEditChapter replaces a chapter's title and content.
func (s *Server) handleEditChapter(w http.ResponseWriter, r *http.Request) {
	var req ChapterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	chapter, err := s.services.Books.EditChapter(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Title, req.Content)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, chapter, s.logger)
}

// handleDeleteChapter removes a chapter and closes the ordering gap.
func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	err := s.services.Books.DeleteChapter(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleRegisterView counts a chapter view, deduplicated per browsing
// session. Anonymous readers count too.
func (s *Server) handleRegisterView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.services.Engagement.RegisterView(ctx, getSessionID(ctx), getUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
