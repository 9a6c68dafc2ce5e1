package category

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"storefront/internal/db/dbtest"
	"storefront/internal/domain"
)

func TestPostgres_UpsertBySlug(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	first, err := repo.Upsert(ctx, domain.Category{ID: uuid.NewString(), Name: "Jars", Slug: "jars"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, domain.Category{ID: uuid.NewString(), Name: "Glass Jars", Slug: "jars"})
	if err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same ID after update, got %s and %s", first.ID, second.ID)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Glass Jars" {
		t.Fatalf("unexpected list %+v", list)
	}
}
