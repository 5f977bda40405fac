package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-esg-platform/internal/database"
	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
)

func newAccount(r role.Role, email string) model.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return model.Account{
		ID:           uuid.NewString(),
		Role:         r,
		Email:        email,
		PasswordHash: "$2a$04$stored-hash",
		Name:         "Ada",
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func runAccountRepositoryContract(t *testing.T, repo AccountRepository) {
	ctx := context.Background()

	t.Run("create then find by id and email", func(t *testing.T) {
		account := newAccount(role.Carbon, "ada-"+uuid.NewString()+"@example.com")
		require.NoError(t, repo.Create(ctx, account))

		byID, err := repo.FindByID(ctx, role.Carbon, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Email, byID.Email)
		assert.Equal(t, role.Carbon, byID.Role)
		assert.Equal(t, account.PasswordHash, byID.PasswordHash)

		byEmail, err := repo.FindByEmail(ctx, role.Carbon, "  "+account.Email+" ")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byEmail.ID)
	})

	t.Run("lookups never cross partitions", func(t *testing.T) {
		account := newAccount(role.NGO, "ngo-"+uuid.NewString()+"@example.com")
		require.NoError(t, repo.Create(ctx, account))

		_, err := repo.FindByID(ctx, role.Corporate, account.ID)
		assert.ErrorIs(t, err, model.ErrAccountNotFound)
		_, err = repo.FindByEmail(ctx, role.SimpleUser, account.Email)
		assert.ErrorIs(t, err, model.ErrAccountNotFound)
	})

	t.Run("duplicate email in one partition is rejected", func(t *testing.T) {
		email := "dup-" + uuid.NewString() + "@example.com"
		require.NoError(t, repo.Create(ctx, newAccount(role.SimpleUser, email)))
		err := repo.Create(ctx, newAccount(role.SimpleUser, email))
		assert.ErrorIs(t, err, model.ErrAccountAlreadyExists)

		require.NoError(t, repo.Create(ctx, newAccount(role.Carbon, email)))
	})

	t.Run("update password stores the hash verbatim", func(t *testing.T) {
		account := newAccount(role.Corporate, "corp-"+uuid.NewString()+"@example.com")
		require.NoError(t, repo.Create(ctx, account))

		require.NoError(t, repo.UpdatePassword(ctx, role.Corporate, account.ID, "new-hash"))
		got, err := repo.FindByID(ctx, role.Corporate, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		err = repo.UpdatePassword(ctx, role.Corporate, uuid.NewString(), "x")
		assert.ErrorIs(t, err, model.ErrAccountNotFound)
	})

	t.Run("status update and filtered list", func(t *testing.T) {
		account := newAccount(role.NGO, "pending-"+uuid.NewString()+"@example.com")
		account.Status = model.StatusPending
		require.NoError(t, repo.Create(ctx, account))

		pending, err := repo.List(ctx, role.NGO, model.StatusPending)
		require.NoError(t, err)
		assert.Contains(t, ids(pending), account.ID)

		require.NoError(t, repo.UpdateStatus(ctx, role.NGO, account.ID, model.StatusActive))
		pending, err = repo.List(ctx, role.NGO, model.StatusPending)
		require.NoError(t, err)
		assert.NotContains(t, ids(pending), account.ID)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		account := newAccount(role.SimpleUser, "gone-"+uuid.NewString()+"@example.com")
		require.NoError(t, repo.Create(ctx, account))

		require.NoError(t, repo.Delete(ctx, role.SimpleUser, account.ID))
		_, err := repo.FindByID(ctx, role.SimpleUser, account.ID)
		assert.ErrorIs(t, err, model.ErrAccountNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, role.SimpleUser, account.ID), model.ErrAccountNotFound)
	})

	t.Run("unregistered role is rejected", func(t *testing.T) {
		_, err := repo.FindByID(ctx, role.Role("investor"), "x")
		assert.ErrorIs(t, err, role.ErrInvalidRole)
		assert.ErrorIs(t, repo.Delete(ctx, role.Role("investor"), "x"), role.ErrInvalidRole)
	})
}

func ids(accounts []model.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.ID)
	}
	return out
}

func TestMemoryAccountRepository(t *testing.T) {
	runAccountRepositoryContract(t, NewMemoryAccountRepository())
}

func TestMemoryAccountRepository_IDsUniqueAcrossPartitions(t *testing.T) {
	repo := NewMemoryAccountRepository()
	account := newAccount(role.SimpleUser, "a@example.com")
	require.NoError(t, repo.Create(context.Background(), account))

	clash := account
	clash.Role = role.Carbon
	clash.Email = "b@example.com"
	assert.ErrorIs(t, repo.Create(context.Background(), clash), model.ErrAccountAlreadyExists)
}

func TestPostgresAccountRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, database.Options{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx, SchemaTables()))

	runAccountRepositoryContract(t, NewPostgresAccountRepository(db.Pool))
}

func TestPartitionRegistry(t *testing.T) {
	for _, r := range role.All() {
		_, err := lookupPartition(r)
		require.NoError(t, err, r)
	}
	assert.Len(t, PartitionTables(), len(role.All()))

	fields, err := RequiredFields(role.Corporate)
	require.NoError(t, err)
	assert.Equal(t, []string{"companyName", "contactPerson"}, fields)

	_, err = RequiredFields(role.Role("investor"))
	assert.ErrorIs(t, err, role.ErrInvalidRole)
}

func TestSchemaTablesMatchMigration(t *testing.T) {
	migration, err := os.ReadFile("../database/migrations/001_accounts.up.sql")
	require.NoError(t, err)

	tables := SchemaTables()
	assert.Len(t, tables, len(role.All())+2)
	for _, table := range tables {
		assert.Contains(t, string(migration), "CREATE TABLE IF NOT EXISTS "+table+" ", table)
	}
}
