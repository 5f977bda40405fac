package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
)

// MemoryAccountRepository keeps partitions in process memory. It backs
// development mode and tests.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[role.Role]map[string]model.Account
}

var _ AccountRepository = (*MemoryAccountRepository)(nil)

func NewMemoryAccountRepository() *MemoryAccountRepository {
	accounts := make(map[role.Role]map[string]model.Account, len(partitions))
	for r := range partitions {
		accounts[r] = map[string]model.Account{}
	}
	return &MemoryAccountRepository{accounts: accounts}
}

func (r *MemoryAccountRepository) FindByID(_ context.Context, rl role.Role, id string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, err := r.bucket(rl)
	if err != nil {
		return model.Account{}, err
	}

	account, ok := bucket[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return account, nil
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, rl role.Role, email string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, err := r.bucket(rl)
	if err != nil {
		return model.Account{}, err
	}

	key := strings.ToLower(strings.TrimSpace(email))
	for _, account := range bucket {
		if strings.ToLower(account.Email) == key {
			return account, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (r *MemoryAccountRepository) Create(_ context.Context, a model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, err := r.bucket(a.Role)
	if err != nil {
		return err
	}

	// ids are unique across every partition, emails within one
	for _, other := range r.accounts {
		if _, taken := other[a.ID]; taken {
			return model.ErrAccountAlreadyExists
		}
	}
	key := strings.ToLower(a.Email)
	for _, existing := range bucket {
		if strings.ToLower(existing.Email) == key {
			return model.ErrAccountAlreadyExists
		}
	}

	bucket[a.ID] = a
	return nil
}

func (r *MemoryAccountRepository) UpdatePassword(_ context.Context, rl role.Role, id string, passwordHash string) error {
	return r.update(rl, id, func(a *model.Account) { a.PasswordHash = passwordHash })
}

func (r *MemoryAccountRepository) UpdateStatus(_ context.Context, rl role.Role, id string, status string) error {
	return r.update(rl, id, func(a *model.Account) { a.Status = status })
}

func (r *MemoryAccountRepository) Delete(_ context.Context, rl role.Role, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, err := r.bucket(rl)
	if err != nil {
		return err
	}
	if _, ok := bucket[id]; !ok {
		return model.ErrAccountNotFound
	}
	delete(bucket, id)
	return nil
}

func (r *MemoryAccountRepository) List(_ context.Context, rl role.Role, status string) ([]model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, err := r.bucket(rl)
	if err != nil {
		return nil, err
	}

	out := make([]model.Account, 0, len(bucket))
	for _, account := range bucket {
		if status != "" && account.Status != status {
			continue
		}
		out = append(out, account)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryAccountRepository) update(rl role.Role, id string, apply func(*model.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, err := r.bucket(rl)
	if err != nil {
		return err
	}
	account, ok := bucket[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	apply(&account)
	account.UpdatedAt = time.Now().UTC()
	bucket[id] = account
	return nil
}

func (r *MemoryAccountRepository) bucket(rl role.Role) (map[string]model.Account, error) {
	if _, err := lookupPartition(rl); err != nil {
		return nil, err
	}
	return r.accounts[rl], nil
}
