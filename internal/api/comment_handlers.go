package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// AddCommentRequest is the payload for posting a comment.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// handleAddComment posts a comment on a chapter.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.services.Comments.AddComment(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleListComments lists a chapter's comments, newest first.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.services.Comments.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, comments, s.logger)
}

// handleDeleteComment removes a comment (owner or moderator).
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := s.services.Comments.DeleteComment(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
