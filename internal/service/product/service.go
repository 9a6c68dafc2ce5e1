package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input is the editable part of a product as submitted by staff.
type Input struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"categoryId"`
	Images      []string        `json:"images"`
	Variants    []string        `json:"variants"`
	Stock       int             `json:"stock"`
	Active      *bool           `json:"active"`
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetActive is Get restricted to products visible in the storefront.
func (s *Service) GetActive(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Product, error) {
	p, err := build(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, *p)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	p, err := build(id, in)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, *p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func build(id string, in Input) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price must not be negative")
	}
	if in.Stock < 0 {
		return nil, domain.Invalid("stock must not be negative")
	}
	images := compact(in.Images)
	if len(images) == 0 {
		return nil, domain.Invalid("at least one image required")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &domain.Product{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Images:      images,
		Variants:    compact(in.Variants),
		Stock:       in.Stock,
		Active:      active,
	}, nil
}

// compact trims entries and drops blanks and duplicates, keeping order.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
