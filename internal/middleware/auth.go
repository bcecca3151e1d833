package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/spendlite/spendlite-be/internal/auth"
	"github.com/spendlite/spendlite-be/internal/http/respond"
)

// Context key type to avoid collisions.
type contextKey string

const userIDKey contextKey = "userID"

// Auth returns middleware that requires a valid Bearer access token and
// stores the authenticated user's ID in the request context.
func Auth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond.Error(w, http.StatusUnauthorized, "missing access token")
				return
			}
			userID, err := tokens.ParseAccess(strings.TrimSpace(token))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID retrieves the authenticated user's ID from the request context.
func UserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDKey).(int64)
	return id, ok
}
