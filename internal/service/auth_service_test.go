package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/apierror"
	"go-esg-platform/pkg/role"
	"go-esg-platform/pkg/token"
)

func signupFor(r role.Role, email string) model.SignupRequest {
	req := model.SignupRequest{Email: email, Password: "secret-1"}
	switch r {
	case role.SimpleUser, role.Carbon:
		req.Name = "Ada Lovelace"
	case role.NGO:
		req.OrganizationName = "Green Rivers"
	case role.Corporate:
		req.CompanyName = "Acme Renewables"
		req.ContactPerson = "Grace Hopper"
	}
	return req
}

func TestAuthService_Signup(t *testing.T) {
	t.Run("auto login roles receive a token", func(t *testing.T) {
		for _, r := range []role.Role{role.SimpleUser, role.Carbon} {
			f := newFixture(t)

			result, err := f.auth.Signup(context.Background(), string(r), signupFor(r, "New@Example.com"))
			require.NoError(t, err, r)
			assert.NotEmpty(t, result.Token)
			assert.Equal(t, r, result.User.Role)
			assert.Equal(t, "new@example.com", result.User.Email)
			assert.Equal(t, model.StatusActive, result.User.Status)

			claims, err := f.codec.Validate(result.Token)
			require.NoError(t, err)
			assert.Equal(t, result.User.ID, claims.UserID)
			assert.Equal(t, r, claims.Role)
		}
	})

	t.Run("organisational roles are pending without token", func(t *testing.T) {
		for _, r := range []role.Role{role.NGO, role.Corporate} {
			f := newFixture(t)

			result, err := f.auth.Signup(context.Background(), string(r), signupFor(r, "org@example.com"))
			require.NoError(t, err, r)
			assert.Empty(t, result.Token)
			assert.Equal(t, model.StatusPending, result.User.Status)
		}
	})

	t.Run("admin cannot self register", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Signup(context.Background(), "admin", model.SignupRequest{Email: "root@example.com", Password: "secret-1"})
		assert.True(t, apierror.HasCode(err, apierror.CodeForbidden))
	})

	t.Run("role specific fields are required", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Signup(context.Background(), "corporate", model.SignupRequest{Email: "c@example.com", Password: "secret-1", CompanyName: "Acme"})

		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, apierror.CodeValidation, apiErr.Code)
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "contactPerson", apiErr.Fields[0].Field)
		assert.Equal(t, "Contact person is required", apiErr.Fields[0].Message)
	})

	t.Run("field errors are collected together", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Signup(context.Background(), "ngo", model.SignupRequest{Email: "not-an-email", Password: "123"})

		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		fields := map[string]string{}
		for _, fe := range apiErr.Fields {
			fields[fe.Field] = fe.Message
		}
		assert.Equal(t, "Email must be a valid email address", fields["email"])
		assert.Equal(t, "Password must be at least 6 characters long", fields["password"])
		assert.Equal(t, "Organization name is required", fields["organizationName"])
	})

	t.Run("duplicate email conflicts within a partition", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Signup(context.Background(), "simple-user", signupFor(role.SimpleUser, "dup@example.com"))
		require.NoError(t, err)

		_, err = f.auth.Signup(context.Background(), "simple-user", signupFor(role.SimpleUser, "DUP@example.com"))
		assert.True(t, apierror.HasCode(err, apierror.CodeConflict))

		_, err = f.auth.Signup(context.Background(), "carbon", signupFor(role.Carbon, "dup@example.com"))
		assert.NoError(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Signup(context.Background(), "investor", signupFor(role.SimpleUser, "x@example.com"))
		assert.True(t, apierror.HasCode(err, apierror.CodeInvalidRole))
	})
}

func TestAuthService_Login(t *testing.T) {
	for _, r := range role.All() {
		t.Run(string(r), func(t *testing.T) {
			f := newFixture(t)
			account := f.seed(t, r, "secret-1")

			result, err := f.auth.Login(context.Background(), string(r), model.LoginRequest{Email: account.Email, Password: "secret-1"})
			require.NoError(t, err)
			assert.Equal(t, account.ID, result.User.ID)

			claims, err := f.auth.ValidateToken(context.Background(), result.Token)
			require.NoError(t, err)
			assert.Equal(t, account.ID, claims.UserID)
			assert.Equal(t, r, claims.Role)
		})
	}

	t.Run("wrong partition looks like bad credentials", func(t *testing.T) {
		f := newFixture(t)
		account := f.seed(t, role.NGO, "secret-1")

		_, err := f.auth.Login(context.Background(), "corporate", model.LoginRequest{Email: account.Email, Password: "secret-1"})
		require.True(t, apierror.HasCode(err, apierror.CodeUnauthorized))
		assert.Contains(t, err.Error(), "invalid credentials")
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t)
		account := f.seed(t, role.Carbon, "secret-1")

		_, err := f.auth.Login(context.Background(), "carbon", model.LoginRequest{Email: account.Email, Password: "secret-2"})
		assert.True(t, apierror.HasCode(err, apierror.CodeUnauthorized))
	})

	t.Run("pending account until approved", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.auth.Signup(context.Background(), "ngo", signupFor(role.NGO, "ngo@example.com"))
		require.NoError(t, err)

		_, err = f.auth.Login(context.Background(), "ngo", model.LoginRequest{Email: "ngo@example.com", Password: "secret-1"})
		assert.True(t, apierror.HasCode(err, apierror.CodeForbidden))

		pending, err := f.auth.ListPending(context.Background(), "ngo")
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, created.User.ID, pending[0].ID)

		admin := f.seed(t, role.Admin, "admin-secret")
		profile, err := f.auth.Approve(context.Background(), f.claimsFor(t, admin), "ngo", created.User.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusActive, profile.Status)

		_, err = f.auth.Approve(context.Background(), f.claimsFor(t, admin), "ngo", created.User.ID)
		assert.True(t, apierror.HasCode(err, apierror.CodeConflict))

		result, err := f.auth.Login(context.Background(), "ngo", model.LoginRequest{Email: "ngo@example.com", Password: "secret-1"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("validation before lookup", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Login(context.Background(), "ngo", model.LoginRequest{Email: "nobody"})
		assert.True(t, apierror.HasCode(err, apierror.CodeValidation))
	})

	t.Run("unknown role", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Login(context.Background(), "superuser", model.LoginRequest{Email: "a@example.com", Password: "secret-1"})
		assert.True(t, apierror.HasCode(err, apierror.CodeInvalidRole))
	})
}

func TestAuthService_ValidateTokenAndLogout(t *testing.T) {
	f := newFixture(t)
	account := f.seed(t, role.SimpleUser, "secret-1")

	result, err := f.auth.Login(context.Background(), "simple-user", model.LoginRequest{Email: account.Email, Password: "secret-1"})
	require.NoError(t, err)

	claims, err := f.auth.ValidateToken(context.Background(), result.Token)
	require.NoError(t, err)

	revoked, err := f.auth.Logout(context.Background(), *claims)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.auth.ValidateToken(context.Background(), result.Token)
	assert.ErrorIs(t, err, model.ErrTokenRevoked)

	_, err = f.auth.ValidateToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestAuthService_LogoutWithoutDenylist(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.credentials, f.repo, f.codec, nil, nil)

	revoked, err := svc.Logout(context.Background(), model.AuthClaims{UserID: "u1", Role: role.NGO, TokenID: "t1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_Profile(t *testing.T) {
	f := newFixture(t)
	account := f.seed(t, role.Corporate, "secret-1")

	profile, err := f.auth.Profile(context.Background(), f.claimsFor(t, account))
	require.NoError(t, err)
	assert.Equal(t, account.Email, profile.Email)

	_, err = f.auth.Profile(context.Background(), model.AuthClaims{UserID: "gone", Role: role.Corporate})
	assert.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	f := newFixture(t)

	created, err := f.auth.EnsureAdmin(context.Background(), "Root@Example.com", "admin-secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.auth.EnsureAdmin(context.Background(), "root@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	result, err := f.auth.Login(context.Background(), "admin", model.LoginRequest{Email: "root@example.com", Password: "admin-secret"})
	require.NoError(t, err)
	assert.Equal(t, role.Admin, result.User.Role)

	created, err = f.auth.EnsureAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}
