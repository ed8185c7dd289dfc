// Package api provides the HTTP API server and handlers for the Inkwell platform.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwell-app/inkwell-server/internal/auth"
	"github.com/inkwell-app/inkwell-server/internal/service"
	"github.com/inkwell-app/inkwell-server/internal/session"
	"github.com/inkwell-app/inkwell-server/internal/validation"
)

// Services groups the service-layer dependencies of the server.
type Services struct {
	Users      *service.UserService
	Books      *service.BookService
	Engagement *service.EngagementService
	Comments   *service.CommentService
	Reviews    *service.ReviewService
	Stats      *service.StatsService
	Library    *service.LibraryService
}

// Options configures the HTTP server.
type Options struct {
	// SessionCookieName is the browsing-session cookie (default: inkwell_session).
	SessionCookieName string
	// DefaultStatsWindowDays is used when a statistics request omits
	// window_days (default: 7).
	DefaultStatsWindowDays int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     Services
	tokens       *auth.TokenService
	sessions     *session.Manager
	writeLimiter *RateLimiter
	validate     *validation.Validator
	router       *chi.Mux
	logger       *slog.Logger
	opts         Options
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, tokens *auth.TokenService, sessions *session.Manager, logger *slog.Logger, opts Options) *Server {
	if opts.SessionCookieName == "" {
		opts.SessionCookieName = "inkwell_session"
	}
	if opts.DefaultStatsWindowDays <= 0 {
		opts.DefaultStatsWindowDays = 7
	}

	s := &Server{
		services: services,
		tokens:   tokens,
		sessions: sessions,
		// Engagement writes are cheap to spam; 60 per minute per client.
		writeLimiter: NewRateLimiter(60, time.Minute, 10),
		validate:     validation.New(),
		router:       chi.NewRouter(),
		logger:       logger,
		opts:         opts,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-owned resources, currently the write
// limiter's eviction sweep.
func (s *Server) Close() {
	s.writeLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.sessionCookie)
	s.router.Use(s.authenticate)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
		})

		// Books. Browsing and reading are public; publishing needs auth.
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleBrowseBooks)
			r.Get("/{id}", s.handleGetBook)
			r.Get("/{id}/chapters", s.handleListChapters)
			r.Get("/{id}/reviews", s.handleListReviews)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateBook)
				r.Patch("/{id}", s.handleUpdateBook)
				r.Delete("/{id}", s.handleDeleteBook)
				r.Post("/{id}/chapters", s.handleAddChapter)
				r.Get("/{id}/statistics", s.handleBookStatistics)

				r.Group(func(r chi.Router) {
					r.Use(s.rateLimitWrites)
					r.Post("/{id}/favorite", s.handleToggleBookFavorite)
					r.Post("/{id}/collection", s.handleToggleCollection)
					r.Put("/{id}/review", s.handleUpsertReview)
					r.Delete("/{id}/review", s.handleDeleteOwnReview)
				})
				r.Get("/{id}/review", s.handleGetOwnReview)
			})
		})

		// Chapters.
		r.Route("/chapters", func(r chi.Router) {
			r.Get("/{id}", s.handleGetChapter)
			r.Get("/{id}/comments", s.handleListComments)

			// Views count for anonymous readers too.
			r.With(s.rateLimitWrites).Post("/{id}/view", s.handleRegisterView)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Patch("/{id}", s.handleEditChapter)
				r.Delete("/{id}", s.handleDeleteChapter)

				r.Group(func(r chi.Router) {
					r.Use(s.rateLimitWrites)
					r.Post("/{id}/like", s.handleToggleChapterLike)
					r.Post("/{id}/comments", s.handleAddComment)
				})
			})
		})

		// Comments.
		r.Route("/comments", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Delete("/{id}", s.handleDeleteComment)
			r.With(s.rateLimitWrites).Post("/{id}/like", s.handleToggleCommentLike)
		})

		// Reviews (curation by ID).
		r.Route("/reviews", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Delete("/{id}", s.handleDeleteReviewByID)
		})

		// Personal library.
		r.Route("/library", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/history", s.handleListHistory)
			r.Post("/history", s.handleRecordReading)
			r.Get("/collection", s.handleListCollection)
		})
	})
}
