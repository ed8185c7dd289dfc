package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwell-app/inkwell-server/internal/config"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/session"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.DatabasePath())

	return &StoreHandle{Store: db}, nil
}

// SessionManagerHandle wraps the session manager with shutdown capability.
type SessionManagerHandle struct {
	*session.Manager
}

// Shutdown implements do.Shutdownable.
func (h *SessionManagerHandle) Shutdown() error {
	return h.Close()
}

// ProvideSessionManager provides the browsing-session dedup store.
func ProvideSessionManager(i do.Injector) (*SessionManagerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	manager, err := session.Open(cfg.SessionDBPath(), cfg.Session.TTL, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Session store initialized", "path", cfg.SessionDBPath(), "ttl", cfg.Session.TTL)

	return &SessionManagerHandle{Manager: manager}, nil
}
