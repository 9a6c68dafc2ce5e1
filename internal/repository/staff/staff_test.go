package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"storefront/internal/db/dbtest"
	"storefront/internal/domain"
)

func TestPostgres_CreateAndGetByUsername(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.StaffAccount{
		ID:           uuid.NewString(),
		Username:     "Maya",
		PasswordHash: "hash",
		Role:         domain.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByUsername(ctx, "maya")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.ID != created.ID || got.Role != domain.RoleEmployee || got.PasswordHash != "hash" {
		t.Fatalf("unexpected account %+v", got)
	}

	_, err = repo.Create(ctx, domain.StaffAccount{ID: uuid.NewString(), Username: "Maya", PasswordHash: "x", Role: domain.RoleOwner})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
