package content

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

func (r *postgresRepo) List(ctx context.Context, collection string) ([]domain.ContentDocument, error) {
	const q = `
SELECT collection, id, data, updated_at
FROM content_documents
WHERE collection = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, collection)
	if err != nil {
		r.logger.Error("content repo: list failed", zap.String("collection", collection), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContentDocument
	for rows.Next() {
		var d domain.ContentDocument
		if err := rows.Scan(&d.Collection, &d.ID, &d.Data, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, collection, id string) (*domain.ContentDocument, error) {
	const q = `
SELECT collection, id, data, updated_at
FROM content_documents
WHERE collection = $1 AND id = $2
`
	var d domain.ContentDocument
	if err := r.pool.QueryRow(ctx, q, collection, id).Scan(&d.Collection, &d.ID, &d.Data, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("content repo: get failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &d, nil
}

// Put replaces the whole document.
func (r *postgresRepo) Put(ctx context.Context, doc domain.ContentDocument) (*domain.ContentDocument, error) {
	const q = `
INSERT INTO content_documents (collection, id, data)
VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE
SET data = EXCLUDED.data, updated_at = now()
RETURNING updated_at
`
	data := doc.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	out := doc
	out.Data = data
	if err := r.pool.QueryRow(ctx, q, doc.Collection, doc.ID, data).Scan(&out.UpdatedAt); err != nil {
		r.logger.Error("content repo: put failed", zap.String("collection", doc.Collection), zap.String("id", doc.ID), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, collection, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM content_documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		r.logger.Error("content repo: delete failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
