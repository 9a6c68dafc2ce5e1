package content

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	docs []domain.ContentDocument
	put  *domain.ContentDocument
}

func (s *stubRepo) List(_ context.Context, collection string) ([]domain.ContentDocument, error) {
	var out []domain.ContentDocument
	for _, d := range s.docs {
		if d.Collection == collection {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, _, _ string) (*domain.ContentDocument, error) {
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Put(_ context.Context, doc domain.ContentDocument) (*domain.ContentDocument, error) {
	s.put = &doc
	return &doc, nil
}

func (s *stubRepo) Delete(_ context.Context, _, _ string) error {
	return nil
}

func TestListKeyedByID(t *testing.T) {
	svc := New(&stubRepo{docs: []domain.ContentDocument{
		{Collection: domain.CollectionBanners, ID: "a", Data: map[string]interface{}{"title": "A"}},
		{Collection: domain.CollectionCartAds, ID: "b", Data: map[string]interface{}{"title": "B"}},
	}})
	got, err := svc.List(context.Background(), domain.CollectionBanners)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got["a"]["title"] != "A" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestUnknownCollection(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.List(context.Background(), "secrets"); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestPutAssignsIDAndDropsEmbeddedID(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	doc, err := svc.Put(context.Background(), domain.CollectionFooterData, "", map[string]interface{}{"id": "x", "phone": "123"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if doc.ID == "" || doc.ID == "x" {
		t.Fatalf("expected generated id, got %q", doc.ID)
	}
	if _, ok := repo.put.Data["id"]; ok {
		t.Fatalf("expected id stripped from data")
	}
}
