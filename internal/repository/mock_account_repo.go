package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
)

type MockAccountRepository struct {
	mock.Mock
}

var _ AccountRepository = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindByID(ctx context.Context, rl role.Role, id string) (model.Account, error) {
	args := m.Called(ctx, rl, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, rl role.Role, email string) (model.Account, error) {
	args := m.Called(ctx, rl, email)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, a model.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, rl role.Role, id string, passwordHash string) error {
	args := m.Called(ctx, rl, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateStatus(ctx context.Context, rl role.Role, id string, status string) error {
	args := m.Called(ctx, rl, id, status)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, rl role.Role, id string) error {
	args := m.Called(ctx, rl, id)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context, rl role.Role, status string) ([]model.Account, error) {
	args := m.Called(ctx, rl, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}
