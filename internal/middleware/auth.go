// Package middleware provides HTTP middleware: authentication against
// Supabase and request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"go.uber.org/zap"

	"buyers-backend/pkg/api"
)

// contextKey is used for context values
type contextKey struct {
	name string
}

var userIDKey = contextKey{"userID"}

// GetUserID safely extracts the authenticated user id from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userIDVal := r.Context().Value(userIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}
	userID, ok := userIDVal.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// Authenticate verifies the Bearer token against Supabase auth and puts
// the user id on the request context. Token validation is delegated to
// the auth service; no claims are decoded locally.
func Authenticate(auth gotrue.Client, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				api.Error(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			user, err := auth.WithToken(parts[1]).GetUser()
			if err != nil {
				logger.Warn("token verification failed", zap.Error(err))
				api.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
