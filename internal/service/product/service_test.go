package product

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type stubRepo struct {
	products  map[string]domain.Product
	lastSaved *domain.Product
}

func (s *stubRepo) List(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *stubRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.products == nil {
		s.products = map[string]domain.Product{}
	}
	s.products[p.ID] = p
	s.lastSaved = &p
	return &p, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{})
	cases := []struct {
		in   Input
		want string
	}{
		{Input{Name: " ", Images: []string{"a.jpg"}}, "name required"},
		{Input{Name: "Jar", Price: decimal.NewFromInt(-1), Images: []string{"a.jpg"}}, "price must not be negative"},
		{Input{Name: "Jar", Stock: -1, Images: []string{"a.jpg"}}, "stock must not be negative"},
		{Input{Name: "Jar", Images: []string{" ", ""}}, "at least one image required"},
	}
	for _, c := range cases {
		_, err := svc.Create(context.Background(), c.in)
		if err == nil || err.Error() != c.want {
			t.Fatalf("expected %q, got %v", c.want, err)
		}
	}
}

func TestCreateNormalizesLists(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	p, err := svc.Create(context.Background(), Input{
		Name:     " Amber Glow ",
		Price:    decimal.NewFromInt(650),
		Images:   []string{" a.jpg", "a.jpg", "b.jpg"},
		Variants: []string{"Small", "", "Large"},
		Stock:    4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Amber Glow" || !p.Active {
		t.Fatalf("unexpected product %+v", p)
	}
	if len(p.Images) != 2 || len(p.Variants) != 2 {
		t.Fatalf("unexpected lists images=%v variants=%v", p.Images, p.Variants)
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", p.ID)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := New(&stubRepo{})
	_, err := svc.Update(context.Background(), uuid.NewString(), Input{Name: "x", Images: []string{"a"}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetActiveHidesInactive(t *testing.T) {
	id := uuid.NewString()
	svc := New(&stubRepo{products: map[string]domain.Product{id: {ID: id, Active: false}}})
	if _, err := svc.GetActive(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
