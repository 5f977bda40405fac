package repository

import (
	"context"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
)

// AccountRepository persists accounts inside their role partition. Password
// hashes are stored exactly as given; hashing is the caller's job.
type AccountRepository interface {
	FindByID(ctx context.Context, r role.Role, id string) (model.Account, error)
	FindByEmail(ctx context.Context, r role.Role, email string) (model.Account, error)
	Create(ctx context.Context, account model.Account) error
	UpdatePassword(ctx context.Context, r role.Role, id string, passwordHash string) error
	UpdateStatus(ctx context.Context, r role.Role, id string, status string) error
	Delete(ctx context.Context, r role.Role, id string) error
	List(ctx context.Context, r role.Role, status string) ([]model.Account, error)
}
