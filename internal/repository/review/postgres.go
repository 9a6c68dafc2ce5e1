package review

import (
	"context"

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

func (r *postgresRepo) List(ctx context.Context, productID string) ([]domain.Review, error) {
	const q = `
SELECT id::text, product_id::text, name, rating, comment, created_at
FROM reviews
WHERE $1 = '' OR product_id::text = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		r.logger.Error("review repo: list failed", zap.String("product_id", productID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (id, product_id, name, rating, comment)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at
`
	out := in
	if err := r.pool.QueryRow(ctx, q, in.ID, in.ProductID, in.Name, in.Rating, in.Comment).Scan(&out.CreatedAt); err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("review repo: create failed", zap.String("product_id", in.ProductID), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("review repo: delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
