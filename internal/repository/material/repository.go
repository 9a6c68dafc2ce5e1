package material

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Material, error)
	GetByID(ctx context.Context, id string) (*domain.Material, error)
	Create(ctx context.Context, m domain.Material) (*domain.Material, error)
	Update(ctx context.Context, m domain.Material) (*domain.Material, error)
	Delete(ctx context.Context, id string) error
}
