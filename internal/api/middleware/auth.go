package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkelsey/devportal/internal/api/response"
	"github.com/mkelsey/devportal/internal/model"
	"github.com/mkelsey/devportal/internal/services/account"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Auth creates bearer authentication middleware
func Auth(accounts *account.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.Message(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			identity, err := accounts.Authenticate(r.Context(), token)
			if err != nil {
				response.Message(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetIdentity returns the authenticated identity from the request context
func GetIdentity(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityContextKey).(*model.Identity)
	return identity
}
