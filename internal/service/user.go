package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/color"
	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/id"
	"github.com/inkwell-app/inkwell-server/internal/store"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// UserService manages platform accounts and issues access tokens.
type UserService struct {
	store  *sqlite.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *sqlite.Store, tokens *auth.TokenService, logger *slog.Logger) *UserService {
	return &UserService{store: store, tokens: tokens, logger: logger}
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username    string
	DisplayName string
	Role        domain.Role
}

// AuthResult is a registered or signed-in user plus their token.
type AuthResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
}

// Register creates a new account and issues an access token. Usernames
// are lowercased and must be unique.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, apperrors.Validation("username must not be empty")
	}
	role := input.Role
	if role == "" {
		role = domain.RoleReader
	}
	// Moderators are provisioned out of band, never through self-registration.
	switch role {
	case domain.RoleReader, domain.RoleAuthor:
	default:
		return nil, apperrors.Validationf("cannot register with role %q", role)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &domain.User{
		ID:          id.MustGenerate(id.PrefixUser),
		Username:    username,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, apperrors.Conflict("username already taken")
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", username, "role", role)
	return s.authResult(user)
}

// Login issues a fresh access token for an existing account.
func (s *UserService) Login(ctx context.Context, username string) (*AuthResult, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return s.authResult(user)
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	user.AvatarColor = color.ForUser(user.ID)
	return user, nil
}

func (s *UserService) authResult(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	user.AvatarColor = color.ForUser(user.ID)
	return &AuthResult{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}
