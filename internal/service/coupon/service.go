package coupon

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	couponrepo "storefront/internal/repository/coupon"
	"storefront/internal/pricing"
)

type Service struct {
	repo couponrepo.Repository
}

func New(repo couponrepo.Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	IsActive *bool           `json:"isActive"`
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) Active(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.ListActive(ctx)
}

// Apply looks code up among the active coupons.
func (s *Service) Apply(ctx context.Context, code string) (*domain.Coupon, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.ApplyCoupon(code, active)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Coupon, error) {
	c, err := build(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, *c)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Coupon, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := build(id, in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, *c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func build(id string, in Input) (*domain.Coupon, error) {
	code := domain.NormalizeCouponCode(in.Code)
	if code == "" {
		return nil, domain.Invalid("code required")
	}
	if in.Discount.IsNegative() {
		return nil, domain.Invalid("discount must not be negative")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &domain.Coupon{ID: id, Code: code, Discount: in.Discount, IsActive: active}, nil
}
