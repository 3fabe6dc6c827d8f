package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/authz"
	"github.com/adboard/adboard-api/internal/redact"
	"github.com/adboard/adboard-api/internal/service/auth"
)

// AuthMiddleware derives the request principal from the Authorization
// header. It comes in two flavors: Authenticate rejects requests without a
// valid bearer token, Populate lets anonymous requests through with an
// anonymous principal so the authorization policy can decide.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate requires a valid bearer token and stores the resulting
// principal in the request context. Requests without one get 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, errStatus, errMsg := m.principalFromRequest(r)
		if errStatus != 0 {
			shared.RespondWithError(w, r, errStatus, errMsg)
			return
		}
		if !principal.Authenticated {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		ctx := context.WithValue(r.Context(), shared.PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Populate derives a principal when a bearer token is present and an
// anonymous principal when the header is absent. A token that is present
// but invalid is still rejected; silently downgrading a bad token to
// anonymous would mask expiry from clients.
func (m *AuthMiddleware) Populate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, errStatus, errMsg := m.principalFromRequest(r)
		if errStatus != 0 {
			shared.RespondWithError(w, r, errStatus, errMsg)
			return
		}

		ctx := context.WithValue(r.Context(), shared.PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalFromRequest parses and validates the Authorization header.
// Returns the principal, or a non-zero status and message when the request
// must be rejected.
func (m *AuthMiddleware) principalFromRequest(r *http.Request) (authz.Principal, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return authz.Anonymous, 0, ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return authz.Anonymous, http.StatusUnauthorized, "Invalid authorization format"
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return authz.Anonymous, http.StatusUnauthorized, "Token expired"
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
			return authz.Anonymous, http.StatusUnauthorized, "Invalid token"
		default:
			slog.Error("failed to validate token", "error", redact.Error(err))
			return authz.Anonymous, http.StatusInternalServerError, "Authentication error"
		}
	}

	return authz.NewPrincipal(claims.UserID, claims.Role), 0, ""
}

// GetPrincipal extracts the principal from the request context. Requests
// that did not pass through the auth middleware yield the anonymous
// principal.
func GetPrincipal(r *http.Request) authz.Principal {
	principal, ok := r.Context().Value(shared.PrincipalContextKey).(authz.Principal)
	if !ok {
		return authz.Anonymous
	}
	return principal
}
