package material

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
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
SELECT id::text, name, price, category, COALESCE(image_url, ''), active, created_at
FROM candle_materials
`

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]domain.Material, error) {
	q := selectColumns
	if activeOnly {
		q += "WHERE active\n"
	}
	q += "ORDER BY category, price, name"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("material repo: list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Material, error) {
	m, err := scanMaterial(r.pool.QueryRow(ctx, selectColumns+"WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) Create(ctx context.Context, m domain.Material) (*domain.Material, error) {
	const q = `
INSERT INTO candle_materials (id, name, price, category, image_url, active)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
RETURNING created_at
`
	out := m
	if err := r.pool.QueryRow(ctx, q, m.ID, m.Name, m.Price, string(m.Category), m.ImageURL, m.Active).Scan(&out.CreatedAt); err != nil {
		r.logger.Error("material repo: create failed", zap.String("name", m.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("material repo: created", zap.String("id", out.ID), zap.String("category", string(out.Category)))
	return &out, nil
}

func (r *postgresRepo) Update(ctx context.Context, m domain.Material) (*domain.Material, error) {
	const q = `
UPDATE candle_materials
SET name = $2, price = $3, category = $4, image_url = NULLIF($5, ''), active = $6
WHERE id = $1
RETURNING created_at
`
	out := m
	if err := r.pool.QueryRow(ctx, q, m.ID, m.Name, m.Price, string(m.Category), m.ImageURL, m.Active).Scan(&out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("material repo: update failed", zap.String("id", m.ID), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

// Delete removes the material and, through the foreign keys, every rule
// referencing it.
func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM candle_materials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMaterial(row pgx.Row) (*domain.Material, error) {
	var m domain.Material
	var category string
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &category, &m.ImageURL, &m.Active, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Category = domain.MaterialCategory(category)
	return &m, nil
}
