package coupon

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

const selectColumns = `
SELECT id::text, code, discount, is_active, created_at
FROM coupons
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	return r.query(ctx, selectColumns+"ORDER BY created_at DESC")
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Coupon, error) {
	return r.query(ctx, selectColumns+"WHERE is_active ORDER BY created_at DESC")
}

func (r *postgresRepo) query(ctx context.Context, q string) ([]domain.Coupon, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("coupon repo: list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Discount, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (id, code, discount, is_active)
VALUES ($1, $2, $3, $4)
RETURNING created_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.ID, c.Code, c.Discount, c.IsActive).Scan(&out.CreatedAt); err != nil {
		if pgerr.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("coupon repo: create failed", zap.String("code", c.Code), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
UPDATE coupons
SET code = $2, discount = $3, is_active = $4
WHERE id = $1
RETURNING created_at
`
	out := c
	if err := r.pool.QueryRow(ctx, q, c.ID, c.Code, c.Discount, c.IsActive).Scan(&out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if pgerr.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("coupon repo: update failed", zap.String("id", c.ID), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("coupon repo: delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
