package cart

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
	"storefront/internal/pricing"
)

// CustomLinePrefix marks cart lines that are not catalog products, such as
// custom candle builds. They are never merged and carry no stock limit.
const CustomLinePrefix = "custom-"

// ErrStockExceeded is returned when a quantity would exceed available stock.
var ErrStockExceeded = errors.New("requested quantity exceeds available stock")

// Service keeps a shopper's cart, gift wrap flag and applied coupon in the
// client-state store.
type Service struct {
	store    kvstore.Store
	products productLookup
	coupons  couponLookup
	logger   *zap.Logger
}

type productLookup interface {
	GetActive(ctx context.Context, id string) (*domain.Product, error)
}

type couponLookup interface {
	Apply(ctx context.Context, code string) (*domain.Coupon, error)
}

func New(store kvstore.Store, products productLookup, coupons couponLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, products: products, coupons: coupons, logger: logger}
}

// View is the cart as rendered, with totals computed over selected lines.
type View struct {
	Lines    []domain.CartLine  `json:"lines"`
	GiftWrap bool               `json:"giftWrap"`
	Coupon   *domain.Coupon     `json:"coupon,omitempty"`
	Totals   pricing.CartTotals `json:"totals"`
}

// AddLineInput is a request to put a catalog product into the cart.
type AddLineInput struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

func (s *Service) View(ctx context.Context, shopperID string) (*View, error) {
	lines, err := kvstore.GetJSON[[]domain.CartLine](ctx, s.store, shopperID, kvstore.KeyCart)
	if err != nil {
		return nil, err
	}
	giftWrap, err := kvstore.GetJSON[bool](ctx, s.store, shopperID, kvstore.KeyGiftWrap)
	if err != nil {
		return nil, err
	}
	coupon, err := kvstore.GetJSON[*domain.Coupon](ctx, s.store, shopperID, kvstore.KeyAppliedCoupon)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &View{
		Lines:    lines,
		GiftWrap: giftWrap,
		Coupon:   coupon,
		Totals:   pricing.ComputeCartTotal(lines, coupon, giftWrap),
	}, nil
}

// AddLine adds a product, merging into an existing line for the same product
// and variant. The merged quantity must not exceed stock.
func (s *Service) AddLine(ctx context.Context, shopperID string, in AddLineInput) (*View, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, domain.Invalid("productId required")
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	p, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	variant := strings.TrimSpace(in.Variant)
	if variant == "" && len(p.Variants) > 0 {
		return nil, domain.Invalid("please select a variant")
	}
	if !p.HasVariant(variant) {
		return nil, domain.Invalid("unknown variant")
	}

	_, err = s.updateLines(ctx, shopperID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		for i := range lines {
			if !lines[i].SameItem(p.ID, variant) {
				continue
			}
			if lines[i].Quantity+qty > p.Stock {
				return nil, ErrStockExceeded
			}
			lines[i].Quantity += qty
			lines[i].Price = p.Price
			lines[i].Selected = true
			if note := strings.TrimSpace(in.Note); note != "" {
				lines[i].Note = note
			}
			return lines, nil
		}
		if qty > p.Stock {
			return nil, ErrStockExceeded
		}
		line := domain.CartLine{
			ProductID:       p.ID,
			Name:            p.Name,
			Price:           p.Price,
			Quantity:        qty,
			SelectedVariant: variant,
			Selected:        true,
			Note:            strings.TrimSpace(in.Note),
		}
		if len(p.Images) > 0 {
			line.ImageURL = p.Images[0]
		}
		return append(lines, line), nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

// AddCustom appends a non-catalog line as its own entry.
func (s *Service) AddCustom(ctx context.Context, shopperID string, line domain.CartLine) (*View, error) {
	if !strings.HasPrefix(line.ProductID, CustomLinePrefix) {
		return nil, domain.Invalidf("custom line id must start with %q", CustomLinePrefix)
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.Selected = true
	_, err := s.updateLines(ctx, shopperID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		return append(lines, line), nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

// SetQuantity changes a line's quantity. Quantities below 1 are rejected;
// use RemoveLine to drop a line.
func (s *Service) SetQuantity(ctx context.Context, shopperID, productID, variant string, qty int) (*View, error) {
	if qty < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}
	stock := -1
	if !strings.HasPrefix(productID, CustomLinePrefix) {
		p, err := s.products.GetActive(ctx, productID)
		if err != nil {
			return nil, err
		}
		stock = p.Stock
	}
	if stock >= 0 && qty > stock {
		return nil, ErrStockExceeded
	}
	_, err := s.updateLines(ctx, shopperID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		i := indexOf(lines, productID, variant)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		lines[i].Quantity = qty
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

// SetSelected toggles whether a line takes part in totals and checkout.
func (s *Service) SetSelected(ctx context.Context, shopperID, productID, variant string, selected bool) (*View, error) {
	_, err := s.updateLines(ctx, shopperID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		i := indexOf(lines, productID, variant)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		lines[i].Selected = selected
		return lines, nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

func (s *Service) RemoveLine(ctx context.Context, shopperID, productID, variant string) (*View, error) {
	_, err := s.updateLines(ctx, shopperID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		i := indexOf(lines, productID, variant)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return append(lines[:i], lines[i+1:]...), nil
	})
	if err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

func (s *Service) SetGiftWrap(ctx context.Context, shopperID string, on bool) (*View, error) {
	if err := kvstore.SetJSON(ctx, s.store, shopperID, kvstore.KeyGiftWrap, on); err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

// ApplyCoupon validates code against active coupons and stores the match for
// the session. The stored coupon is not re-validated afterwards.
func (s *Service) ApplyCoupon(ctx context.Context, shopperID, code string) (*View, error) {
	c, err := s.coupons.Apply(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := kvstore.SetJSON(ctx, s.store, shopperID, kvstore.KeyAppliedCoupon, c); err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

func (s *Service) RemoveCoupon(ctx context.Context, shopperID string) (*View, error) {
	if err := s.store.Delete(ctx, shopperID, kvstore.KeyAppliedCoupon); err != nil {
		return nil, err
	}
	return s.View(ctx, shopperID)
}

// RemoveOrdered takes the ordered lines out of the cart and drops the applied
// coupon. Each matching line loses the ordered quantity; anything added or
// selected after the snapshot stays in the cart.
func (s *Service) RemoveOrdered(ctx context.Context, shopperID string, ordered []domain.CartLine) error {
	_, err := s.updateLines(ctx, shopperID, func(lines []domain.CartLine) ([]domain.CartLine, error) {
		kept := make([]domain.CartLine, 0, len(lines))
		for _, l := range lines {
			for _, o := range ordered {
				if l.SameItem(o.ProductID, o.SelectedVariant) {
					l.Quantity -= o.Quantity
					break
				}
			}
			if l.Quantity > 0 {
				kept = append(kept, l)
			}
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, shopperID, kvstore.KeyAppliedCoupon)
}

// Watch emits the current view and then a fresh view after every change to
// the cart, gift wrap flag or coupon, until ctx is done. A slow reader only
// ever sees the latest view.
func (s *Service) Watch(ctx context.Context, shopperID string) (<-chan View, error) {
	first, err := s.View(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	cartCh, cancelCart := s.store.Subscribe(shopperID, kvstore.KeyCart)
	wrapCh, cancelWrap := s.store.Subscribe(shopperID, kvstore.KeyGiftWrap)
	couponCh, cancelCoupon := s.store.Subscribe(shopperID, kvstore.KeyAppliedCoupon)

	out := make(chan View, 1)
	out <- *first
	go func() {
		defer close(out)
		defer cancelCart()
		defer cancelWrap()
		defer cancelCoupon()
		for {
			select {
			case <-ctx.Done():
				return
			case <-cartCh:
			case <-wrapCh:
			case <-couponCh:
			}
			v, err := s.View(ctx, shopperID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("cart watch: reload failed", zap.String("shopper_id", shopperID), zap.Error(err))
				continue
			}
			select {
			case <-out:
			default:
			}
			select {
			case out <- *v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Service) updateLines(ctx context.Context, shopperID string, reducer func([]domain.CartLine) ([]domain.CartLine, error)) ([]domain.CartLine, error) {
	return kvstore.UpdateJSON(ctx, s.store, shopperID, kvstore.KeyCart, func(cur []domain.CartLine) ([]domain.CartLine, error) {
		next, err := reducer(cur)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []domain.CartLine{}
		}
		return next, nil
	})
}

func indexOf(lines []domain.CartLine, productID, variant string) int {
	for i := range lines {
		if lines[i].SameItem(productID, variant) {
			return i
		}
	}
	return -1
}
