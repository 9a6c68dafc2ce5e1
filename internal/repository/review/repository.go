package review

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// List returns reviews newest first. An empty productID lists all.
	List(ctx context.Context, productID string) ([]domain.Review, error)
	Create(ctx context.Context, r domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
