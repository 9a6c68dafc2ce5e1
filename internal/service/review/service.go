package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/notify"
	reviewrepo "storefront/internal/repository/review"
)

type Service struct {
	repo   reviewrepo.Repository
	relay  notify.Relay
	logger *zap.Logger
}

func New(repo reviewrepo.Repository, relay notify.Relay, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, relay: relay, logger: logger}
}

type Input struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (s *Service) List(ctx context.Context, productID string) ([]domain.Review, error) {
	productID = strings.TrimSpace(productID)
	if productID != "" {
		if _, err := uuid.Parse(productID); err != nil {
			return nil, nil
		}
	}
	return s.repo.List(ctx, productID)
}

// Create stores the review and notifies the store. A failed notification is
// logged and does not fail the call.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Review, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, domain.Invalid("productId required")
	}
	if _, err := uuid.Parse(productID); err != nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, domain.Invalid("comment required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.Invalid("rating must be between 1 and 5")
	}

	rv, err := s.repo.Create(ctx, domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		Name:      name,
		Rating:    in.Rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, err
	}

	if s.relay != nil {
		n := notify.Notification{
			Subject: fmt.Sprintf("New review from %s", rv.Name),
			Message: fmt.Sprintf("Product: %s\nRating: %d/5\nName: %s\n\n%s\n", rv.ProductID, rv.Rating, rv.Name, rv.Comment),
		}
		if err := s.relay.Send(ctx, n); err != nil {
			s.logger.Warn("review notification failed", zap.String("review_id", rv.ID), zap.Error(err))
		}
	}
	return rv, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
