// Package middleware provides HTTP middleware for authentication, CORS and
// rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Desktoo/WorkEzy-demo/internal/service"
)

type sessionContextKey struct{}

// AuthMiddleware validates the session token and adds the session claims to
// the request context. When role is non-empty, only that role is admitted.
func AuthMiddleware(tokenService service.TokenService, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromHeader(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			claims, err := tokenService.Validate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			if role != "" && claims.Role != role {
				// Ownership scoping treats wrong-role access as absence.
				writeError(w, http.StatusNotFound, "not found")
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireEmployer admits only employer sessions.
func RequireEmployer(tokenService service.TokenService) func(http.Handler) http.Handler {
	return AuthMiddleware(tokenService, service.RoleEmployer)
}

// RequireCandidate admits only candidate sessions.
func RequireCandidate(tokenService service.TokenService) func(http.Handler) http.Handler {
	return AuthMiddleware(tokenService, service.RoleCandidate)
}

// GetSessionFromRequest retrieves the session claims set by AuthMiddleware.
func GetSessionFromRequest(r *http.Request) (*service.SessionClaims, bool) {
	claims, ok := r.Context().Value(sessionContextKey{}).(*service.SessionClaims)
	return claims, ok
}

// extractTokenFromHeader extracts the Bearer token from the Authorization
// header, falling back to the session cookie.
func extractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err == nil && cookie != nil {
			return cookie.Value
		}
		return ""
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return authHeader
	}

	return strings.TrimPrefix(authHeader, bearerPrefix)
}

// writeError writes an error response in JSON format
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
