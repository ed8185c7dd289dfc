package api

import (
	"net/http"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// HealthStatus reports service liveness.
type HealthStatus struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, HealthStatus{Status: "ok"}, s.logger)
}
