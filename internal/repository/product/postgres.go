package product

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
SELECT id::text, name, COALESCE(description, ''), price, COALESCE(category_id::text, ''), images, variants, stock, active, created_at
FROM products
`

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	q := selectColumns
	if activeOnly {
		q += "WHERE active\n"
	}
	q += "ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Bool("active_only", activeOnly), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectColumns+"WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price, category_id, images, variants, stock, active)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, '')::uuid, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    category_id = EXCLUDED.category_id,
    images = EXCLUDED.images,
    variants = EXCLUDED.variants,
    stock = EXCLUDED.stock,
    active = EXCLUDED.active
RETURNING created_at
`
	images := p.Images
	if images == nil {
		images = []string{}
	}
	variants := p.Variants
	if variants == nil {
		variants = []string{}
	}
	out := p
	err := r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.Price, p.CategoryID, images, variants, p.Stock, p.Active).Scan(&out.CreatedAt)
	if err != nil {
		r.logger.Error("product repo: upsert failed", zap.String("id", p.ID), zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("product repo: upserted", zap.String("id", out.ID), zap.String("name", out.Name))
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.Images, &p.Variants, &p.Stock, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
