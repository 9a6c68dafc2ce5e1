package content

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/domain"
	contentrepo "storefront/internal/repository/content"
)

// ErrUnknownCollection is returned for collections the storefront does not serve.
var ErrUnknownCollection = errors.New("unknown content collection")

type Service struct {
	repo contentrepo.Repository
}

func New(repo contentrepo.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the collection keyed by document id.
func (s *Service) List(ctx context.Context, collection string) (map[string]map[string]interface{}, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]interface{}, len(docs))
	for _, d := range docs {
		out[d.ID] = d.Data
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, collection, id string) (*domain.ContentDocument, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, collection, id)
}

// Put replaces the document. An empty id creates a new document.
func (s *Service) Put(ctx context.Context, collection, id string, data map[string]interface{}) (*domain.ContentDocument, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, domain.Invalid("data required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	delete(data, "id")
	return s.repo.Put(ctx, domain.ContentDocument{Collection: collection, ID: id, Data: data})
}

func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	return s.repo.Delete(ctx, collection, id)
}

func checkCollection(c string) error {
	if !domain.IsContentCollection(c) {
		return ErrUnknownCollection
	}
	return nil
}
