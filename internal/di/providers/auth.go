package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/config"
	"github.com/inkwell-app/inkwell-server/internal/logger"
)

// AuthKey is the hex-encoded PASETO symmetric key.
type AuthKey string

// ProvideAuthKey loads the token key from config, or loads/generates
// one under the data path.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.AccessTokenKeyHex != "" {
		return AuthKey(cfg.Auth.AccessTokenKeyHex), nil
	}

	keyHex, err := auth.LoadOrGenerateKey(cfg.Store.BasePath)
	if err != nil {
		return "", err
	}

	log.Info("Authentication key loaded", "access_token_duration", accessTokenDuration)

	return AuthKey(keyHex), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), accessTokenDuration)
}
