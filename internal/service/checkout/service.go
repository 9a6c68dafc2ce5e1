// Package checkout submits orders and manages a shopper's order history.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
	"storefront/internal/notify"
	"storefront/internal/order"
	"storefront/internal/service/cart"
)

// ErrSubmissionFailed wraps a relay failure. Nothing was persisted and the
// cart is unchanged, so the shopper can retry.
var ErrSubmissionFailed = errors.New("order submission failed")

type cartSource interface {
	View(ctx context.Context, shopperID string) (*cart.View, error)
	RemoveOrdered(ctx context.Context, shopperID string, ordered []domain.CartLine) error
}

type Service struct {
	store       kvstore.Store
	cart        cartSource
	relay       notify.Relay
	ids         *order.IDGenerator
	guard       *order.Guard
	paymentNote string
	now         func() time.Time
	logger      *zap.Logger
}

type Config struct {
	Store       kvstore.Store
	Cart        cartSource
	Relay       notify.Relay
	IDs         *order.IDGenerator
	PaymentNote string
	Now         func() time.Time
	Logger      *zap.Logger
}

func New(cfg Config) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDs == nil {
		cfg.IDs = order.NewIDGenerator("", cfg.Now)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Service{
		store:       cfg.Store,
		cart:        cfg.Cart,
		relay:       cfg.Relay,
		ids:         cfg.IDs,
		guard:       order.NewGuard(),
		paymentNote: cfg.PaymentNote,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
}

type SubmitInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ChangeInput struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Submit relays the selected cart lines as an order. Only after the relay
// accepts it is the order recorded as Pending, the ordered lines and coupon
// cleared, and the checkout info saved for prefill.
func (s *Service) Submit(ctx context.Context, shopperID string, in SubmitInput) (*domain.OrderRecord, error) {
	info := domain.CheckoutInfo{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Email:   strings.TrimSpace(in.Email),
	}
	if info.Name == "" {
		return nil, domain.Invalid("name required")
	}
	if info.Phone == "" {
		return nil, domain.Invalid("phone required")
	}
	if info.Address == "" {
		return nil, domain.Invalid("address required")
	}

	if err := s.guard.Begin(shopperID); err != nil {
		return nil, err
	}
	rec, err := s.submit(ctx, shopperID, info, strings.TrimSpace(in.Message))
	s.guard.Finish(shopperID, err == nil)
	return rec, err
}

func (s *Service) submit(ctx context.Context, shopperID string, info domain.CheckoutInfo, message string) (*domain.OrderRecord, error) {
	view, err := s.cart.View(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	var items []domain.CartLine
	for _, l := range view.Lines {
		if l.Selected {
			items = append(items, l)
		}
	}
	if len(items) == 0 {
		return nil, domain.Invalid("select at least one item to check out")
	}

	orderID, ts := s.ids.Next()
	couponCode := ""
	if view.Coupon != nil {
		couponCode = view.Coupon.Code
	}
	summary := order.BuildSummary(order.SummaryInput{
		OrderID:     orderID,
		Items:       items,
		Totals:      view.Totals,
		CouponCode:  couponCode,
		GiftWrap:    view.GiftWrap,
		Customer:    info,
		Message:     message,
		PaymentNote: s.paymentNote,
	})
	if err := s.relay.Send(ctx, notify.Notification{Subject: "New Order " + orderID, Message: summary}); err != nil {
		s.logger.Warn("order relay failed", zap.String("shopper_id", shopperID), zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	rec := domain.OrderRecord{
		OrderID:       orderID,
		Timestamp:     ts,
		Items:         items,
		Subtotal:      view.Totals.Subtotal,
		DeliveryFee:   view.Totals.DeliveryFee,
		GiftWrapFee:   view.Totals.GiftWrapFee,
		Discount:      view.Totals.Discount,
		Total:         view.Totals.Total,
		CouponCode:    couponCode,
		Message:       message,
		Name:          info.Name,
		Email:         info.Email,
		Address:       info.Address,
		Phone:         info.Phone,
		IsGiftWrapped: view.GiftWrap,
		Status:        domain.OrderPending,
	}
	if _, err := kvstore.UpdateJSON(ctx, s.store, shopperID, kvstore.KeyProfile, func(p domain.ProfileData) (domain.ProfileData, error) {
		p.OrderHistory = append(p.OrderHistory, rec)
		return p, nil
	}); err != nil {
		s.logger.Error("order relayed but not recorded", zap.String("shopper_id", shopperID), zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("record order: %w", err)
	}
	if err := s.cart.RemoveOrdered(ctx, shopperID, items); err != nil {
		s.logger.Error("clear cart after order failed", zap.String("shopper_id", shopperID), zap.String("order_id", orderID), zap.Error(err))
	}
	if err := kvstore.SetJSON(ctx, s.store, shopperID, kvstore.KeyCheckoutInfo, info); err != nil {
		s.logger.Warn("save checkout info failed", zap.String("shopper_id", shopperID), zap.Error(err))
	}
	s.logger.Info("order submitted", zap.String("shopper_id", shopperID), zap.String("order_id", orderID), zap.String("total", rec.Total.StringFixed(2)))
	return &rec, nil
}

// State reports the shopper's submission state.
func (s *Service) State(shopperID string) order.SubmissionState {
	return s.guard.State(shopperID)
}

// History returns the shopper's orders, newest first.
func (s *Service) History(ctx context.Context, shopperID string) ([]domain.OrderRecord, error) {
	p, err := kvstore.GetJSON[domain.ProfileData](ctx, s.store, shopperID, kvstore.KeyProfile)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderRecord, 0, len(p.OrderHistory))
	for i := len(p.OrderHistory) - 1; i >= 0; i-- {
		out = append(out, p.OrderHistory[i])
	}
	return out, nil
}

// CheckoutInfo returns the last used contact details. Zero when none.
func (s *Service) CheckoutInfo(ctx context.Context, shopperID string) (domain.CheckoutInfo, error) {
	return kvstore.GetJSON[domain.CheckoutInfo](ctx, s.store, shopperID, kvstore.KeyCheckoutInfo)
}

// Cancel moves a pending order inside the edit window to Cancelled.
func (s *Service) Cancel(ctx context.Context, shopperID, orderID string) (*domain.OrderRecord, error) {
	rec, err := s.mutate(ctx, shopperID, orderID, order.Cancel)
	if err != nil {
		return nil, err
	}
	s.notifyUpdate(ctx, *rec, "Order cancelled by customer")
	return rec, nil
}

// ChangeDetails replaces the address or phone of a pending order inside the
// edit window.
func (s *Service) ChangeDetails(ctx context.Context, shopperID, orderID string, in ChangeInput) (*domain.OrderRecord, error) {
	if strings.TrimSpace(in.Address) == "" && strings.TrimSpace(in.Phone) == "" {
		return nil, domain.Invalid("address or phone required")
	}
	rec, err := s.mutate(ctx, shopperID, orderID, func(r domain.OrderRecord) domain.OrderRecord {
		return order.ChangeDetails(r, in.Address, in.Phone)
	})
	if err != nil {
		return nil, err
	}
	s.notifyUpdate(ctx, *rec, "Delivery details changed")
	return rec, nil
}

func (s *Service) mutate(ctx context.Context, shopperID, orderID string, change func(domain.OrderRecord) domain.OrderRecord) (*domain.OrderRecord, error) {
	var updated domain.OrderRecord
	_, err := kvstore.UpdateJSON(ctx, s.store, shopperID, kvstore.KeyProfile, func(p domain.ProfileData) (domain.ProfileData, error) {
		i := p.FindOrder(orderID)
		if i < 0 {
			return p, domain.ErrNotFound
		}
		if err := order.CheckMutable(p.OrderHistory[i], s.now()); err != nil {
			return p, err
		}
		p.OrderHistory[i] = change(p.OrderHistory[i])
		updated = p.OrderHistory[i]
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// notifyUpdate relays an order change. Failures are logged only; the change
// stays applied.
func (s *Service) notifyUpdate(ctx context.Context, rec domain.OrderRecord, change string) {
	n := notify.Notification{
		Subject: "Order Update " + rec.OrderID,
		Message: order.BuildUpdateSummary(rec, change),
	}
	if err := s.relay.Send(ctx, n); err != nil {
		s.logger.Warn("order update relay failed", zap.String("order_id", rec.OrderID), zap.Error(err))
	}
}
