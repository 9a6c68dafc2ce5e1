package staff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/repository/pgerr"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, a domain.StaffAccount) (*domain.StaffAccount, error) {
	const q = `
INSERT INTO staff_accounts (id, username, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING created_at
`
	out := a
	if err := r.pool.QueryRow(ctx, q, a.ID, a.Username, a.PasswordHash, string(a.Role)).Scan(&out.CreatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("staff repo: create failed", zap.String("username", a.Username), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.StaffAccount, error) {
	const q = `
SELECT id::text, username, password_hash, role, created_at
FROM staff_accounts
WHERE lower(username) = lower($1)
LIMIT 1
`
	return scanAccount(r.pool.QueryRow(ctx, q, username))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	const q = `
SELECT id::text, username, password_hash, role, created_at
FROM staff_accounts
WHERE id = $1
`
	return scanAccount(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.StaffAccount, error) {
	const q = `
SELECT id::text, username, password_hash, role, created_at
FROM staff_accounts
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("staff repo: list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_accounts WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("staff repo: delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.StaffAccount, error) {
	var a domain.StaffAccount
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &role, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	a.Role = domain.StaffRole(role)
	return &a, nil
}
