package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/inkwell-app/inkwell-server/internal/api"
	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/config"
	"github.com/inkwell-app/inkwell-server/internal/logger"
	"github.com/inkwell-app/inkwell-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	sessionHandle := do.MustInvoke[*SessionManagerHandle](i)

	services := api.Services{
		Users:      do.MustInvoke[*service.UserService](i),
		Books:      do.MustInvoke[*service.BookService](i),
		Engagement: do.MustInvoke[*service.EngagementService](i),
		Comments:   do.MustInvoke[*service.CommentService](i),
		Reviews:    do.MustInvoke[*service.ReviewService](i),
		Stats:      do.MustInvoke[*service.StatsService](i),
		Library:    do.MustInvoke[*service.LibraryService](i),
	}

	server := api.NewServer(services, tokens, sessionHandle.Manager, log.Logger, api.Options{
		SessionCookieName:      cfg.Session.CookieName,
		DefaultStatsWindowDays: cfg.Stats.DefaultWindowDays,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: httpServer, api: server}, nil
}
