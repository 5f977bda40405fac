// Package credential adapts the account repositories into the two questions
// authentication asks: does this account exist, and does the password match.
package credential

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"go-esg-platform/internal/model"
	"go-esg-platform/internal/repository"
	"go-esg-platform/pkg/role"
)

type Store struct {
	accounts repository.AccountRepository
	cost     int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewStore(accounts repository.AccountRepository, cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{accounts: accounts, cost: cost}
}

// FindByID looks id up in the partition of r. A missing account is reported
// through the boolean, not as an error.
func (s *Store) FindByID(ctx context.Context, r role.Role, id string) (model.Account, bool, error) {
	return s.found(s.accounts.FindByID(ctx, r, id))
}

func (s *Store) FindByEmail(ctx context.Context, r role.Role, email string) (model.Account, bool, error) {
	return s.found(s.accounts.FindByEmail(ctx, r, email))
}

// VerifyPassword always pays for one bcrypt comparison. An account without a
// hash, such as the zero value of a failed lookup, is checked against a dummy
// hash and never matches.
func (s *Store) VerifyPassword(account model.Account, candidate string) bool {
	if account.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(candidate))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(candidate)) == nil
}

func (s *Store) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.cost)
	})
	return s.dummyHash
}

func (s *Store) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Store) found(account model.Account, err error) (model.Account, bool, error) {
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, err
	}
	return account, true, nil
}
