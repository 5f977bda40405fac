package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-esg-platform/internal/credential"
	"go-esg-platform/internal/model"
	"go-esg-platform/internal/repository"
	"go-esg-platform/internal/revocation"
	"go-esg-platform/pkg/role"
	"go-esg-platform/pkg/token"
)

type fixture struct {
	repo        *repository.MemoryAccountRepository
	credentials *credential.Store
	codec       *token.Codec
	denylist    *revocation.MemoryDenylist
	audit       *repository.MemoryAuditRepository
	auth        *AuthService
	accounts    *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewMemoryAccountRepository()
	credentials := credential.NewStore(repo, bcrypt.MinCost)
	codec, err := token.NewCodec([]byte("test-secret-0123456789"), time.Hour, "esg-test")
	require.NoError(t, err)
	denylist := revocation.NewMemoryDenylist()
	auditRepo := repository.NewMemoryAuditRepository()
	audit := NewAuditService(auditRepo)

	return &fixture{
		repo:        repo,
		credentials: credentials,
		codec:       codec,
		denylist:    denylist,
		audit:       auditRepo,
		auth:        NewAuthService(credentials, repo, codec, denylist, audit),
		accounts:    NewAccountService(credentials, repo, denylist, audit),
	}
}

// seed stores an active account of role r with the given password.
func (f *fixture) seed(t *testing.T, r role.Role, password string) model.Account {
	t.Helper()

	hash, err := f.credentials.HashPassword(password)
	require.NoError(t, err)

	account := model.Account{
		ID:           uuid.NewString(),
		Role:         r,
		Email:        string(r) + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Seeded " + string(r),
		Status:       model.StatusActive,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, f.repo.Create(context.Background(), account))
	return account
}

func (f *fixture) claimsFor(t *testing.T, account model.Account) model.AuthClaims {
	t.Helper()

	_, claims, err := f.codec.Issue(account.ID, account.Role)
	require.NoError(t, err)
	return model.AuthClaims{UserID: account.ID, Role: account.Role, TokenID: claims.TokenID, ExpiresAt: claims.ExpiresAt}
}
