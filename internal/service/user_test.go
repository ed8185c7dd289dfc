package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userTestKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func newTestUsers(t *testing.T) (*UserService, *sqlite.Store, *auth.TokenService) {
	t.Helper()

	st := newTestSQLite(t)
	tokens, err := auth.NewTokenService(userTestKeyHex, 15*time.Minute)
	require.NoError(t, err)

	return NewUserService(st, tokens, discardLogger()), st, tokens
}

func TestRegister(t *testing.T) {
	svc, _, tokens := newTestUsers(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		Username:    "  Rowan  ",
		DisplayName: "Rowan Hale",
		Role:        domain.RoleAuthor,
	})
	require.NoError(t, err)
	assert.Equal(t, "rowan", result.User.Username)
	assert.Equal(t, domain.RoleAuthor, result.User.Role)
	assert.Regexp(t, `^#[0-9A-F]{6}$`, result.User.AvatarColor)
	assert.True(t, strings.HasPrefix(result.AccessToken, "v4.local."))
	assert.Equal(t, int64((15 * time.Minute).Seconds()), result.ExpiresIn)

	claims, err := tokens.VerifyAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, domain.RoleAuthor, claims.Role)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestUsers(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Username: "pat", Role: "admin"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegister_ModeratorRoleRejected(t *testing.T) {
	svc, _, _ := newTestUsers(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "mallory",
		Role:     domain.RoleModerator,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegister_Defaults(t *testing.T) {
	svc, _, _ := newTestUsers(t)

	result, err := svc.Register(context.Background(), RegisterInput{Username: "quinn"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReader, result.User.Role)
	assert.Equal(t, "quinn", result.User.DisplayName)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestUsers(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "sam"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "SAM"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestUsers(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "jo"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, "Jo")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetUser(t *testing.T) {
	svc, st, _ := newTestUsers(t)
	ctx := context.Background()
	user := createTestUser(t, st, domain.RoleReader)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = svc.Get(ctx, "usr-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
