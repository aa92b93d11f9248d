package api

import (
	"context"
	"net/http"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
)

// identityHeader names the caller. Authentication lives outside this
// service; a trusted gateway verifies the session and forwards the user ID.
const identityHeader = "X-User-ID"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// rateLimit throttles requests per client. Identified callers are keyed by
// user ID so shared NATs do not starve each other; anonymous requests fall
// back to the remote address.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(identityHeader)
		if key == "" {
			key = r.RemoteAddr
		}
		if !s.limiter.Allow(key) {
			response.Error(w, http.StatusTooManyRequests, "Too many requests", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireIdentity resolves the forwarded user ID to an active account and
// attaches it to the request context.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(identityHeader)
		if userID == "" {
			response.Unauthorized(w, "Missing "+identityHeader+" header", s.logger)
			return
		}

		user, err := s.catalog.GetUser(r.Context(), userID)
		if err != nil {
			response.Unauthorized(w, "Unknown user", s.logger)
			return
		}
		if !user.Active {
			response.Unauthorized(w, "Account is deactivated", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser extracts the resolved caller from request context.
// Returns nil outside requireIdentity.
func currentUser(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(contextKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}
