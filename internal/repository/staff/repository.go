package staff

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, a domain.StaffAccount) (*domain.StaffAccount, error)
	GetByUsername(ctx context.Context, username string) (*domain.StaffAccount, error)
	GetByID(ctx context.Context, id string) (*domain.StaffAccount, error)
	List(ctx context.Context) ([]domain.StaffAccount, error)
	Delete(ctx context.Context, id string) error
}
