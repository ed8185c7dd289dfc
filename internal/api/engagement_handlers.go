package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// handleToggleChapterLike flips the caller's like on a chapter.
func (s *Server) handleToggleChapterLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.services.Engagement.ToggleChapterLike(ctx, getUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleToggleBookFavorite flips the caller's favorite on a book.
func (s *Server) handleToggleBookFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.services.Engagement.ToggleBookFavorite(ctx, getUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleToggleCommentLike flips the caller's like on a comment.
func (s *Server) handleToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := s.services.Engagement.ToggleCommentLike(ctx, getUserID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
