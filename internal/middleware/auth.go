package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-esg-platform/internal/metrics"
	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
	"go-esg-platform/pkg/token"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*model.AuthClaims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	validator tokenValidator
}

func NewAuthMiddleware(validator tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// RequireAuth accepts only requests carrying a valid, unrevoked bearer token.
// If the revocation list cannot be consulted the request is refused.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			metrics.RecordTokenRejected("missing")
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := m.validator.ValidateToken(r.Context(), strings.TrimSpace(header[7:]))
		if err != nil {
			switch {
			case errors.Is(err, model.ErrTokenRevoked):
				metrics.RecordTokenRejected("revoked")
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token has been revoked")
			case errors.Is(err, token.ErrInvalidToken):
				reason := rejectionReason(err)
				metrics.RecordTokenRejected(reason)
				slog.Debug("bearer token rejected", "reason", reason, "request_id", RequestIDFromContext(r.Context()))
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			default:
				metrics.RecordTokenRejected("unavailable")
				slog.Error("token validation failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
				writeJSONError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "authentication temporarily unavailable")
			}
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequireRoles(allowedRoles ...role.Role) func(http.Handler) http.Handler {
	roleSet := map[role.Role]struct{}{}
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if _, exists := roleSet[claims.Role]; !exists {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

// WithClaims attaches claims the way RequireAuth does. Used by handler tests.
func WithClaims(ctx context.Context, claims *model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignature):
		return "signature"
	case errors.Is(err, role.ErrInvalidRole):
		return "role"
	default:
		return "malformed"
	}
}
