package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkwell-app/inkwell-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID    contextKey = "user_id"
	contextKeyRole      contextKey = "role"
	contextKeySessionID contextKey = "session_id"
)

// sessionCookie ensures every request carries a browsing-session ID.
// A missing or empty cookie gets a fresh ID set on the response, so
// view dedup works from the first page load.
func (s *Server) sessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if cookie, err := r.Cookie(s.opts.SessionCookieName); err == nil {
			sessionID = cookie.Value
		}
		if sessionID == "" {
			sessionID = s.sessions.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     s.opts.SessionCookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(s.sessions.TTL().Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), contextKeySessionID, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate validates a Bearer token when present and attaches the
// caller's identity to the context. Requests without a token continue
// anonymously; requireAuth rejects them where identity is mandatory.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.tokens.VerifyAccessToken(authHeader[len("Bearer "):])
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, contextKeyRole, string(claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth rejects requests that did not authenticate.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getUserID(r.Context()) == "" {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// getSessionID extracts the browsing-session ID from request context.
func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(contextKeySessionID).(string); ok {
		return sessionID
	}
	return ""
}
