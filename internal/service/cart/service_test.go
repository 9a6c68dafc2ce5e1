package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
	"storefront/internal/pricing"
)

type stubProducts struct {
	products map[string]domain.Product
}

func (s *stubProducts) GetActive(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok || !p.Active {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type stubCoupons struct {
	coupons []domain.Coupon
}

func (s *stubCoupons) Apply(_ context.Context, code string) (*domain.Coupon, error) {
	return pricing.ApplyCoupon(code, s.coupons)
}

func newTestService() (*Service, *kvstore.Memory) {
	store := kvstore.NewMemory()
	products := &stubProducts{products: map[string]domain.Product{
		"jar": {ID: "jar", Name: "Amber Jar", Price: decimal.NewFromInt(900), Stock: 3, Active: true, Images: []string{"jar.jpg"}},
		"tin": {ID: "tin", Name: "Travel Tin", Price: decimal.NewFromInt(250), Stock: 10, Active: true, Variants: []string{"Rose", "Oud"}},
		"off": {ID: "off", Name: "Retired", Price: decimal.NewFromInt(1), Stock: 10, Active: false},
	}}
	coupons := &stubCoupons{coupons: []domain.Coupon{
		{Code: "SAVE100", Discount: decimal.NewFromInt(100), IsActive: true},
		{Code: "GONE", Discount: decimal.NewFromInt(100), IsActive: false},
	}}
	return New(store, products, coupons, nil), store
}

func TestViewEmptyCart(t *testing.T) {
	svc, _ := newTestService()
	v, err := svc.View(context.Background(), "s1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(v.Lines) != 0 || !v.Totals.Subtotal.IsZero() {
		t.Fatalf("unexpected empty view %+v", v)
	}
}

func TestAddLineMergesSameProduct(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar", Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	v, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar", Quantity: 2})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(v.Lines) != 1 || v.Lines[0].Quantity != 3 {
		t.Fatalf("expected one merged line of 3, got %+v", v.Lines)
	}
	if v.Lines[0].ImageURL != "jar.jpg" {
		t.Fatalf("expected first image on line, got %q", v.Lines[0].ImageURL)
	}
	if !v.Totals.Subtotal.Equal(decimal.NewFromInt(2700)) || !v.Totals.DeliveryFee.IsZero() {
		t.Fatalf("unexpected totals %+v", v.Totals)
	}
}

func TestAddLineRejectsStockOverflow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar", Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar", Quantity: 1}); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
	v, _ := svc.View(ctx, "s1")
	if v.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity unchanged, got %d", v.Lines[0].Quantity)
	}
}

func TestAddLineVariants(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "tin"}); err == nil || err.Error() != "please select a variant" {
		t.Fatalf("expected variant required, got %v", err)
	}
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "tin", Variant: "Pine"}); err == nil || err.Error() != "unknown variant" {
		t.Fatalf("expected unknown variant, got %v", err)
	}
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "tin", Variant: "Rose"}); err != nil {
		t.Fatalf("add rose: %v", err)
	}
	v, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "tin", Variant: "Oud"})
	if err != nil {
		t.Fatalf("add oud: %v", err)
	}
	if len(v.Lines) != 2 {
		t.Fatalf("expected separate lines per variant, got %+v", v.Lines)
	}
}

func TestAddLineInactiveProduct(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.AddLine(context.Background(), "s1", AddLineInput{ProductID: "off"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetQuantityAndSelection(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar"}); err != nil {
		t.Fatalf("add jar: %v", err)
	}
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "tin", Variant: "Rose"}); err != nil {
		t.Fatalf("add tin: %v", err)
	}

	if _, err := svc.SetQuantity(ctx, "s1", "jar", "", 0); err == nil {
		t.Fatalf("expected quantity validation error")
	}
	if _, err := svc.SetQuantity(ctx, "s1", "jar", "", 4); !errors.Is(err, ErrStockExceeded) {
		t.Fatalf("expected ErrStockExceeded, got %v", err)
	}
	if _, err := svc.SetQuantity(ctx, "s1", "jar", "", 2); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	v, err := svc.SetSelected(ctx, "s1", "tin", "Rose", false)
	if err != nil {
		t.Fatalf("set selected: %v", err)
	}
	if !v.Totals.Subtotal.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("expected only selected jar lines counted, got %s", v.Totals.Subtotal)
	}

	if _, err := svc.RemoveLine(ctx, "s1", "tin", "Oud"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing line, got %v", err)
	}
	v, err = svc.RemoveLine(ctx, "s1", "tin", "Rose")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(v.Lines) != 1 {
		t.Fatalf("expected one line left, got %+v", v.Lines)
	}
}

func TestCouponAndGiftWrap(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.ApplyCoupon(ctx, "s1", "gone"); !errors.Is(err, pricing.ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
	v, err := svc.View(ctx, "s1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !v.Totals.Discount.IsZero() {
		t.Fatalf("rejected coupon must not discount, got %s", v.Totals.Discount)
	}

	if _, err := svc.ApplyCoupon(ctx, "s1", " save100 "); err != nil {
		t.Fatalf("apply: %v", err)
	}
	v, err = svc.SetGiftWrap(ctx, "s1", true)
	if err != nil {
		t.Fatalf("gift wrap: %v", err)
	}
	// 900 + 120 delivery + 20 wrap - 100
	if !v.Totals.Total.Equal(decimal.NewFromInt(940)) {
		t.Fatalf("unexpected total %s", v.Totals.Total)
	}

	v, err = svc.RemoveCoupon(ctx, "s1")
	if err != nil {
		t.Fatalf("remove coupon: %v", err)
	}
	if v.Coupon != nil {
		t.Fatalf("expected coupon removed")
	}
}

func TestAddCustomNeverMerges(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	line := domain.CartLine{ProductID: CustomLinePrefix + "a", Name: "Custom Candle", Price: decimal.NewFromInt(700)}
	if _, err := svc.AddCustom(ctx, "s1", line); err != nil {
		t.Fatalf("add custom: %v", err)
	}
	line.ProductID = CustomLinePrefix + "b"
	v, err := svc.AddCustom(ctx, "s1", line)
	if err != nil {
		t.Fatalf("add custom again: %v", err)
	}
	if len(v.Lines) != 2 || v.Lines[0].Quantity != 1 || !v.Lines[1].Selected {
		t.Fatalf("unexpected custom lines %+v", v.Lines)
	}
	if _, err := svc.AddCustom(ctx, "s1", domain.CartLine{ProductID: "jar"}); err == nil {
		t.Fatalf("expected prefix validation error")
	}
	if _, err := svc.SetQuantity(ctx, "s1", CustomLinePrefix+"a", "", 5); err != nil {
		t.Fatalf("custom lines carry no stock limit: %v", err)
	}
}

func TestRemoveOrderedKeepsLinesOutsideTheOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar"}); err != nil {
		t.Fatalf("add jar: %v", err)
	}
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "tin", Variant: "Oud"}); err != nil {
		t.Fatalf("add tin: %v", err)
	}
	if _, err := svc.ApplyCoupon(ctx, "s1", "SAVE100"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	ordered := []domain.CartLine{{ProductID: "jar", Quantity: 1}}

	// A line still selected, but not part of the order, survives.
	if err := svc.RemoveOrdered(ctx, "s1", ordered); err != nil {
		t.Fatalf("remove ordered: %v", err)
	}
	v, err := svc.View(ctx, "s1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(v.Lines) != 1 || v.Lines[0].ProductID != "tin" || !v.Lines[0].Selected || v.Coupon != nil {
		t.Fatalf("unexpected cart after removal %+v", v)
	}
}

func TestRemoveOrderedLeavesQuantityAddedLater(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.AddLine(ctx, "s1", AddLineInput{ProductID: "jar", Quantity: 3}); err != nil {
		t.Fatalf("add jar: %v", err)
	}
	if err := svc.RemoveOrdered(ctx, "s1", []domain.CartLine{{ProductID: "jar", Quantity: 2}}); err != nil {
		t.Fatalf("remove ordered: %v", err)
	}
	v, err := svc.View(ctx, "s1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(v.Lines) != 1 || v.Lines[0].Quantity != 1 {
		t.Fatalf("expected one jar left, got %+v", v.Lines)
	}
}

func TestWatchEmitsOnChange(t *testing.T) {
	svc, _ := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.Watch(ctx, "s1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	first := <-ch
	if len(first.Lines) != 0 {
		t.Fatalf("expected empty first view, got %+v", first)
	}

	if _, err := svc.AddLine(context.Background(), "s1", AddLineInput{ProductID: "jar"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	select {
	case v := <-ch:
		if len(v.Lines) != 1 {
			t.Fatalf("expected watched view with one line, got %+v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for watched view")
	}

	cancel()
	for range ch {
	}
}
