package profile

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

type productLookup interface {
	GetActive(ctx context.Context, id string) (*domain.Product, error)
}

// Service manages shopper profile fields, the wishlist and back-in-stock
// subscriptions.
type Service struct {
	store    kvstore.Store
	products productLookup
}

func New(store kvstore.Store, products productLookup) *Service {
	return &Service{store: store, products: products}
}

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (s *Service) Get(ctx context.Context, shopperID string) (domain.ProfileData, error) {
	p, err := kvstore.GetJSON[domain.ProfileData](ctx, s.store, shopperID, kvstore.KeyProfile)
	if err != nil {
		return domain.ProfileData{}, err
	}
	if p.OrderHistory == nil {
		p.OrderHistory = []domain.OrderRecord{}
	}
	return p, nil
}

// Update replaces the profile fields. Order history is kept.
func (s *Service) Update(ctx context.Context, shopperID string, in Input) (domain.ProfileData, error) {
	email := strings.TrimSpace(in.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.ProfileData{}, domain.Invalid("invalid email")
	}
	return kvstore.UpdateJSON(ctx, s.store, shopperID, kvstore.KeyProfile, func(p domain.ProfileData) (domain.ProfileData, error) {
		p.Name = strings.TrimSpace(in.Name)
		p.Email = email
		p.Phone = strings.TrimSpace(in.Phone)
		p.Address = strings.TrimSpace(in.Address)
		if p.OrderHistory == nil {
			p.OrderHistory = []domain.OrderRecord{}
		}
		return p, nil
	})
}

func (s *Service) Wishlist(ctx context.Context, shopperID string) ([]string, error) {
	return s.list(ctx, shopperID, kvstore.KeyWishlist)
}

func (s *Service) AddToWishlist(ctx context.Context, shopperID, productID string) ([]string, error) {
	if _, err := s.products.GetActive(ctx, productID); err != nil {
		return nil, err
	}
	return s.add(ctx, shopperID, kvstore.KeyWishlist, productID)
}

func (s *Service) RemoveFromWishlist(ctx context.Context, shopperID, productID string) ([]string, error) {
	return s.remove(ctx, shopperID, kvstore.KeyWishlist, productID)
}

func (s *Service) StockNotifications(ctx context.Context, shopperID string) ([]string, error) {
	return s.list(ctx, shopperID, kvstore.KeyStockNotifications)
}

// NotifyWhenInStock subscribes the shopper to a sold-out product. Products
// with stock left are rejected.
func (s *Service) NotifyWhenInStock(ctx context.Context, shopperID, productID string) ([]string, error) {
	p, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock > 0 {
		return nil, domain.Invalid("product is in stock")
	}
	return s.add(ctx, shopperID, kvstore.KeyStockNotifications, productID)
}

func (s *Service) list(ctx context.Context, shopperID, key string) ([]string, error) {
	ids, err := kvstore.GetJSON[[]string](ctx, s.store, shopperID, key)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Service) add(ctx context.Context, shopperID, key, id string) ([]string, error) {
	return kvstore.UpdateJSON(ctx, s.store, shopperID, key, func(ids []string) ([]string, error) {
		for _, existing := range ids {
			if existing == id {
				return ids, nil
			}
		}
		return append(ids, id), nil
	})
}

func (s *Service) remove(ctx context.Context, shopperID, key, id string) ([]string, error) {
	return kvstore.UpdateJSON(ctx, s.store, shopperID, key, func(ids []string) ([]string, error) {
		out := make([]string, 0, len(ids))
		for _, existing := range ids {
			if existing != id {
				out = append(out, existing)
			}
		}
		return out, nil
	})
}
