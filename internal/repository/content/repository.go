package content

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, collection string) ([]domain.ContentDocument, error)
	Get(ctx context.Context, collection, id string) (*domain.ContentDocument, error)
	Put(ctx context.Context, doc domain.ContentDocument) (*domain.ContentDocument, error)
	Delete(ctx context.Context, collection, id string) error
}
