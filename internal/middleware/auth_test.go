package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
	"go-esg-platform/pkg/token"
)

type stubValidator struct {
	claims *model.AuthClaims
	err    error
}

func (s stubValidator) ValidateToken(context.Context, string) (*model.AuthClaims, error) {
	return s.claims, s.err
}

func serveAuth(t *testing.T, v tokenValidator, header string, roles ...role.Role) *httptest.ResponseRecorder {
	t.Helper()

	mw := NewAuthMiddleware(v)
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(claims.UserID))
	})
	if len(roles) > 0 {
		h = mw.RequireRoles(roles...)(h)
	}
	h = mw.RequireAuth(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	valid := stubValidator{claims: &model.AuthClaims{UserID: "u1", Role: role.NGO}}

	t.Run("accepts bearer token", func(t *testing.T) {
		rec := serveAuth(t, valid, "Bearer abc")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		rec := serveAuth(t, valid, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := serveAuth(t, valid, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rec := serveAuth(t, stubValidator{err: fmt.Errorf("%w: %w", token.ErrInvalidToken, token.ErrExpired)}, "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid or expired token")
	})

	t.Run("revoked token", func(t *testing.T) {
		rec := serveAuth(t, stubValidator{err: model.ErrTokenRevoked}, "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "revoked")
	})

	t.Run("revocation store down", func(t *testing.T) {
		rec := serveAuth(t, stubValidator{err: errors.New("dial tcp: connection refused")}, "Bearer abc")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestRequireRoles(t *testing.T) {
	ngo := stubValidator{claims: &model.AuthClaims{UserID: "u1", Role: role.NGO}}

	rec := serveAuth(t, ngo, "Bearer abc", role.Admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FORBIDDEN"`)

	rec = serveAuth(t, ngo, "Bearer abc", role.Admin, role.NGO)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "expired", rejectionReason(fmt.Errorf("%w: %w", token.ErrInvalidToken, token.ErrExpired)))
	assert.Equal(t, "signature", rejectionReason(fmt.Errorf("%w: %w", token.ErrInvalidToken, token.ErrSignature)))
	assert.Equal(t, "role", rejectionReason(fmt.Errorf("%w: %w", token.ErrInvalidToken, role.ErrInvalidRole)))
	assert.Equal(t, "malformed", rejectionReason(token.ErrInvalidToken))
}
