package rule

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// List returns every rule, oldest first.
	List(ctx context.Context) ([]domain.CompatibilityRule, error)
	GetByID(ctx context.Context, id string) (*domain.CompatibilityRule, error)
	Create(ctx context.Context, r domain.CompatibilityRule) (*domain.CompatibilityRule, error)
	Update(ctx context.Context, r domain.CompatibilityRule) (*domain.CompatibilityRule, error)
	Delete(ctx context.Context, id string) error
}
