package rule

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/repository/pgerr"
)

const tripleConstraint = "uq_candle_rule_triple"

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
SELECT id::text, container_id::text, wick_id::text, wax_id::text, price_modifier, is_compatible, COALESCE(description, ''), created_at
FROM candle_compatibility_rules
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.CompatibilityRule, error) {
	rows, err := r.pool.Query(ctx, selectColumns+"ORDER BY created_at ASC, id ASC")
	if err != nil {
		r.logger.Error("rule repo: list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.CompatibilityRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.CompatibilityRule, error) {
	rule, err := scanRule(r.pool.QueryRow(ctx, selectColumns+"WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (r *postgresRepo) Create(ctx context.Context, in domain.CompatibilityRule) (*domain.CompatibilityRule, error) {
	const q = `
INSERT INTO candle_compatibility_rules (id, container_id, wick_id, wax_id, price_modifier, is_compatible, description)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
RETURNING created_at
`
	out := in
	err := r.pool.QueryRow(ctx, q, in.ID, in.ContainerID, in.WickID, in.WaxID, in.PriceModifier, in.IsCompatible, in.Description).Scan(&out.CreatedAt)
	if err != nil {
		return nil, r.mapWriteErr("create", in, err)
	}
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, in domain.CompatibilityRule) (*domain.CompatibilityRule, error) {
	const q = `
UPDATE candle_compatibility_rules
SET container_id = $2, wick_id = $3, wax_id = $4, price_modifier = $5, is_compatible = $6, description = NULLIF($7, '')
WHERE id = $1
RETURNING created_at
`
	out := in
	err := r.pool.QueryRow(ctx, q, in.ID, in.ContainerID, in.WickID, in.WaxID, in.PriceModifier, in.IsCompatible, in.Description).Scan(&out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, r.mapWriteErr("update", in, err)
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM candle_compatibility_rules WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("rule repo: delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) mapWriteErr(op string, in domain.CompatibilityRule, err error) error {
	switch {
	case pgerr.IsUniqueViolation(err, tripleConstraint):
		return domain.ErrDuplicateRule
	case pgerr.IsForeignKeyViolation(err):
		return domain.ErrNotFound
	}
	r.logger.Error("rule repo: "+op+" failed",
		zap.String("id", in.ID),
		zap.String("container_id", in.ContainerID),
		zap.String("wick_id", in.WickID),
		zap.String("wax_id", in.WaxID),
		zap.Error(err),
	)
	return err
}

func scanRule(row pgx.Row) (*domain.CompatibilityRule, error) {
	var out domain.CompatibilityRule
	if err := row.Scan(&out.ID, &out.ContainerID, &out.WickID, &out.WaxID, &out.PriceModifier, &out.IsCompatible, &out.Description, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}
