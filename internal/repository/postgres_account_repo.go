package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-esg-platform/internal/model"
	"go-esg-platform/pkg/role"
)

const accountColumns = `id, email, password_hash, name, organization_name, company_name,
	contact_person, status, created_at, updated_at`

const uniqueViolation = "23505"

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

var _ AccountRepository = (*PostgresAccountRepository)(nil)

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, rl role.Role, id string) (model.Account, error) {
	table, err := tableFor(rl)
	if err != nil {
		return model.Account{}, err
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM `+table+` WHERE id = $1`, id)
	account, err := scanAccount(row, rl)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find %s account by id: %w", rl, err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, rl role.Role, email string) (model.Account, error) {
	table, err := tableFor(rl)
	if err != nil {
		return model.Account{}, err
	}

	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM `+table+` WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email))
	account, err := scanAccount(row, rl)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find %s account by email: %w", rl, err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a model.Account) error {
	table, err := tableFor(a.Role)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO `+table+` (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Email, a.PasswordHash, a.Name, a.OrganizationName, a.CompanyName,
		a.ContactPerson, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrAccountAlreadyExists
		}
		return fmt.Errorf("create %s account: %w", a.Role, err)
	}
	return nil
}

func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, rl role.Role, id string, passwordHash string) error {
	table, err := tableFor(rl)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE `+table+` SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update %s password: %w", rl, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) UpdateStatus(ctx context.Context, rl role.Role, id string, status string) error {
	table, err := tableFor(rl)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE `+table+` SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update %s status: %w", rl, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, rl role.Role, id string) error {
	table, err := tableFor(rl)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s account: %w", rl, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) List(ctx context.Context, rl role.Role, status string) ([]model.Account, error) {
	table, err := tableFor(rl)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + accountColumns + ` FROM ` + table
	args := make([]any, 0, 1)
	if status = strings.TrimSpace(status); status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s accounts: %w", rl, err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows, rl)
		if err != nil {
			return nil, fmt.Errorf("scan %s account: %w", rl, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func tableFor(rl role.Role) (string, error) {
	p, err := lookupPartition(rl)
	if err != nil {
		return "", err
	}
	return pgx.Identifier{p.table}.Sanitize(), nil
}

func scanAccount(row pgx.Row, rl role.Role) (model.Account, error) {
	a := model.Account{Role: rl}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.OrganizationName,
		&a.CompanyName, &a.ContactPerson, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
