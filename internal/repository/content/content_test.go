package content

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/db/dbtest"
	"storefront/internal/domain"
)

func TestPostgres_PutReplacesDocument(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	if _, err := repo.Put(ctx, domain.ContentDocument{
		Collection: domain.CollectionBanners,
		ID:         "hero",
		Data:       map[string]interface{}{"title": "Autumn", "link": "/sale"},
	}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := repo.Put(ctx, domain.ContentDocument{
		Collection: domain.CollectionBanners,
		ID:         "hero",
		Data:       map[string]interface{}{"title": "Winter"},
	}); err != nil {
		t.Fatalf("put replace: %v", err)
	}

	got, err := repo.Get(ctx, domain.CollectionBanners, "hero")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Data["title"] != "Winter" {
		t.Fatalf("unexpected data %v", got.Data)
	}
	if _, ok := got.Data["link"]; ok {
		t.Fatalf("expected full replace, got %v", got.Data)
	}

	if err := repo.Delete(ctx, domain.CollectionBanners, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
