package category

import (
	"context"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	saved []domain.Category
}

func (s *stubRepo) List(_ context.Context) ([]domain.Category, error) {
	return s.saved, nil
}

func (s *stubRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.saved = append(s.saved, c)
	return &c, nil
}

func (s *stubRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Scented Jars":        "scented-jars",
		"  Gift  Sets & Kits": "gift-sets-kits",
		"--":                  "",
		"Soy 100%":            "soy-100",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpsertDerivesSlug(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	c, err := svc.Upsert(context.Background(), "Pillar Candles", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if c.Slug != "pillar-candles" {
		t.Fatalf("unexpected slug %q", c.Slug)
	}
}

func TestUpsertRequiresName(t *testing.T) {
	svc := New(&stubRepo{})
	_, err := svc.Upsert(context.Background(), "  ", "x")
	if err == nil || err.Error() != "name required" {
		t.Fatalf("expected name required, got %v", err)
	}
}
