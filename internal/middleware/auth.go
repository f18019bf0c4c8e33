package middleware

import (
	"context"
	"net/http"

	"wastenot-api/internal/service"
	"wastenot-api/pkg/apierror"
)

// UserIDKey is the key for storing the authenticated user ID in request context.
const UserIDKey contextKey = "user_id"

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	TokenService *service.TokenService
}

// NewAuthMiddleware creates an authentication middleware with injected dependencies.
// NO GLOBAL STATE - token service is passed via closure.
//
// Identity comes from one of two places:
//   - X-Token: a session token issued by the auth endpoints, validated
//     against Redis.
//   - X-User-ID: a verified claim set by an upstream auth proxy. Only
//     trusted when no token service is configured or the token header is
//     absent; deployments without a proxy should terminate this header.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Token")
			if token != "" && cfg.TokenService != nil {
				tokenData, err := cfg.TokenService.ValidateToken(r.Context(), token)
				if err != nil {
					writeError(w, apierror.NotAuthenticated("Invalid or expired token"))
					return
				}

				ctx := context.WithValue(r.Context(), UserIDKey, tokenData.UserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				writeError(w, apierror.NotAuthenticated("Authentication required. Use X-Token or X-User-ID header."))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, err *apierror.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	w.Write(err.ToJSON())
}

// GetUserID retrieves the authenticated user ID from request context.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
