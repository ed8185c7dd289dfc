package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// decodeAndValidate parses the JSON request body into dst and runs
// struct validation. On failure it writes the error response and
// returns false; handlers should return immediately.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return false
	}
	if err := s.validate.Validate(dst); err != nil {
		response.HandleError(w, err, s.logger)
		return false
	}
	return true
}
