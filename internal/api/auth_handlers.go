package api

import (
	"net/http"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	"github.com/inkwell-app/inkwell-server/internal/http/response"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=40"`
	DisplayName string `json:"display_name" validate:"max=80"`
	Role        string `json:"role" validate:"omitempty,oneof=reader author"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
}

// handleRegister creates a new account and returns an access token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.services.Users.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Role:        domain.Role(req.Role),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleLogin issues a fresh access token for an existing account.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.services.Users.Login(r.Context(), req.Username)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleGetCurrentUser returns the authenticated user.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.Get(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}
