package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// handleBookStatistics returns the engagement report for a book.
// window_days defaults to the configured window when omitted; an
// unparseable or out-of-range value is rejected by the service.
func (s *Server) handleBookStatistics(w http.ResponseWriter, r *http.Request) {
	windowDays := s.opts.DefaultStatsWindowDays
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "window_days must be an integer", s.logger)
			return
		}
		windowDays = parsed
	}

	stats, err := s.services.Stats.BookStatistics(r.Context(), getUserID(r.Context()), chi.URLParam(r, "id"), windowDays)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, stats, s.logger)
}
