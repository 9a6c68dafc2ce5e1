package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDec(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "%s: want %d, got %s", field, want, got)
}

func material(id string, cat domain.MaterialCategory, price int64) *domain.Material {
	return &domain.Material{ID: id, Name: id, Category: cat, Price: dec(price), Active: true}
}

func TestDeliveryFeeFor(t *testing.T) {
	assertDec(t, 120, DeliveryFeeFor(dec(0)), "zero")
	assertDec(t, 120, DeliveryFeeFor(decimal.RequireFromString("1999.99")), "just below")
	assertDec(t, 0, DeliveryFeeFor(dec(2000)), "threshold")
	assertDec(t, 0, DeliveryFeeFor(dec(5000)), "above")
}

func TestComputeCandleTotal_FreeDeliveryAboveThreshold(t *testing.T) {
	sel := domain.CandleSelection{
		Container: material("jar", domain.MaterialContainer, 800),
		Wick:      material("cotton", domain.MaterialWick, 50),
		Wax:       material("soy", domain.MaterialWax, 1200),
	}
	q := ComputeCandleTotal(sel, nil)

	assertDec(t, 2050, q.Subtotal, "subtotal")
	assertDec(t, 0, q.DeliveryFee, "delivery")
	assertDec(t, 2050, q.Total, "total")
	assert.True(t, q.Compatible)
}

func TestComputeCandleTotal_AppliesMatchingRuleModifier(t *testing.T) {
	rules := []domain.CompatibilityRule{
		{ID: "r1", ContainerID: "A", WickID: "B", WaxID: "C", PriceModifier: dec(-100), IsCompatible: true},
	}
	sel := domain.CandleSelection{
		Container: material("A", domain.MaterialContainer, 500),
		Wick:      material("B", domain.MaterialWick, 50),
		Wax:       material("C", domain.MaterialWax, 300),
	}
	q := ComputeCandleTotal(sel, rules)

	assertDec(t, 750, q.Subtotal, "subtotal")
	assertDec(t, 120, q.DeliveryFee, "delivery")
	assertDec(t, 870, q.Total, "total")
	assertDec(t, -100, q.PriceModifier, "modifier")
	assert.Equal(t, "r1", q.RuleID)
}

func TestComputeCandleTotal_IncompleteSelectionSkipsRules(t *testing.T) {
	rules := []domain.CompatibilityRule{
		{ID: "r1", ContainerID: "A", WickID: "B", WaxID: "", PriceModifier: dec(999), IsCompatible: false, Description: "no"},
	}
	sel := domain.CandleSelection{
		Container: material("A", domain.MaterialContainer, 500),
		Wick:      material("B", domain.MaterialWick, 50),
		Addons:    []domain.Material{*material("scent", domain.MaterialAddon, 70)},
	}
	q := ComputeCandleTotal(sel, rules)

	assertDec(t, 0, q.PriceModifier, "modifier")
	assert.True(t, q.Compatible)
	assert.Empty(t, q.Reason)
	assertDec(t, 620, q.Subtotal, "subtotal")
}

func TestComputeCandleTotal_EmptySelection(t *testing.T) {
	q := ComputeCandleTotal(domain.CandleSelection{}, nil)
	assertDec(t, 0, q.Subtotal, "subtotal")
	assertDec(t, 120, q.DeliveryFee, "delivery")
	assert.True(t, q.Compatible)
}

func TestComputeCandleTotal_IncompatibleRuleSurfacesDescription(t *testing.T) {
	rules := []domain.CompatibilityRule{
		{ID: "r1", ContainerID: "A", WickID: "B", WaxID: "C", PriceModifier: dec(0), IsCompatible: false, Description: "Wick too thin for this jar"},
	}
	sel := domain.CandleSelection{
		Container: material("A", domain.MaterialContainer, 500),
		Wick:      material("B", domain.MaterialWick, 50),
		Wax:       material("C", domain.MaterialWax, 300),
	}
	q := ComputeCandleTotal(sel, rules)

	assert.False(t, q.Compatible)
	assert.Equal(t, "Wick too thin for this jar", q.Reason)
}

func TestComputeCandleTotal_IncompatibleRuleStillAppliesModifier(t *testing.T) {
	rules := []domain.CompatibilityRule{
		{ID: "r1", ContainerID: "A", WickID: "B", WaxID: "C", PriceModifier: dec(200), IsCompatible: false, Description: "Needs a wider jar"},
	}
	sel := domain.CandleSelection{
		Container: material("A", domain.MaterialContainer, 500),
		Wick:      material("B", domain.MaterialWick, 50),
		Wax:       material("C", domain.MaterialWax, 300),
	}
	q := ComputeCandleTotal(sel, rules)

	assert.False(t, q.Compatible)
	assertDec(t, 200, q.PriceModifier, "priceModifier")
	assertDec(t, 1050, q.Subtotal, "subtotal")
	assertDec(t, 1170, q.Total, "total")
}

func TestComputeCandleTotal_FirstMatchWins(t *testing.T) {
	rules := []domain.CompatibilityRule{
		{ID: "first", ContainerID: "A", WickID: "B", WaxID: "C", PriceModifier: dec(10), IsCompatible: true},
		{ID: "second", ContainerID: "A", WickID: "B", WaxID: "C", PriceModifier: dec(99), IsCompatible: false},
	}
	sel := domain.CandleSelection{
		Container: material("A", domain.MaterialContainer, 1),
		Wick:      material("B", domain.MaterialWick, 1),
		Wax:       material("C", domain.MaterialWax, 1),
	}
	q := ComputeCandleTotal(sel, rules)
	assert.Equal(t, "first", q.RuleID)
	assert.True(t, q.Compatible)
}

func TestComputeCandleTotal_LargeDiscountFloorsAtZero(t *testing.T) {
	rules := []domain.CompatibilityRule{
		{ID: "r1", ContainerID: "A", WickID: "B", WaxID: "C", PriceModifier: dec(-5000), IsCompatible: true},
	}
	sel := domain.CandleSelection{
		Container: material("A", domain.MaterialContainer, 100),
		Wick:      material("B", domain.MaterialWick, 10),
		Wax:       material("C", domain.MaterialWax, 100),
	}
	q := ComputeCandleTotal(sel, rules)
	assertDec(t, 0, q.Subtotal, "subtotal")
	assertDec(t, 120, q.Total, "total")
}

func TestComputeCartTotal_IgnoresUnselectedLines(t *testing.T) {
	lines := []domain.CartLine{
		{ProductID: "p1", Price: dec(100), Quantity: 2, Selected: true},
		{ProductID: "p2", Price: dec(9999), Quantity: 1, Selected: false},
	}
	totals := ComputeCartTotal(lines, nil, false)

	assertDec(t, 200, totals.Subtotal, "subtotal")
	assertDec(t, 120, totals.DeliveryFee, "delivery")
	assertDec(t, 0, totals.Discount, "discount")
	assertDec(t, 320, totals.Total, "total")
}

func TestComputeCartTotal_OrderIndependent(t *testing.T) {
	a := domain.CartLine{ProductID: "a", Price: dec(700), Quantity: 1, Selected: true}
	b := domain.CartLine{ProductID: "b", Price: dec(650), Quantity: 2, Selected: true}
	c := domain.CartLine{ProductID: "c", Price: dec(15), Quantity: 3, Selected: true}

	first := ComputeCartTotal([]domain.CartLine{a, b, c}, nil, true)
	second := ComputeCartTotal([]domain.CartLine{c, a, b}, nil, true)

	require.True(t, first.Total.Equal(second.Total))
	assertDec(t, 2045, first.Subtotal, "subtotal")
	assertDec(t, 0, first.DeliveryFee, "delivery")
	assertDec(t, 20, first.GiftWrapFee, "gift wrap")
	assertDec(t, 2065, first.Total, "total")
}

func TestComputeCartTotal_DiscountLargerThanTotalClampsToZero(t *testing.T) {
	lines := []domain.CartLine{{ProductID: "p1", Price: dec(50), Quantity: 1, Selected: true}}
	coupon := &domain.Coupon{Code: "BIG", Discount: dec(10000), IsActive: true}
	totals := ComputeCartTotal(lines, coupon, true)

	assertDec(t, 10000, totals.Discount, "discount")
	assertDec(t, 0, totals.Total, "total")
}

func TestComputeCartTotal_UsesAppliedCouponEvenIfDeactivated(t *testing.T) {
	lines := []domain.CartLine{{ProductID: "p1", Price: dec(500), Quantity: 1, Selected: true}}
	coupon := &domain.Coupon{Code: "OLD", Discount: dec(100), IsActive: false}
	totals := ComputeCartTotal(lines, coupon, false)
	assertDec(t, 520, totals.Total, "total")
}

func TestApplyCoupon(t *testing.T) {
	coupons := []domain.Coupon{
		{ID: "1", Code: "SPRING", Discount: dec(100), IsActive: false},
		{ID: "2", Code: "WELCOME", Discount: dec(150), IsActive: true},
		{ID: "3", Code: "SPRING", Discount: dec(50), IsActive: true},
	}

	got, err := ApplyCoupon("  welcome ", coupons)
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)

	got, err = ApplyCoupon("spring", coupons)
	require.NoError(t, err)
	assert.Equal(t, "3", got.ID, "inactive coupon must be skipped")

	_, err = ApplyCoupon("NOPE", coupons)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = ApplyCoupon("", coupons)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestApplyCoupon_InactiveOnlyLeavesDiscountZero(t *testing.T) {
	coupons := []domain.Coupon{{ID: "1", Code: "GONE", Discount: dec(100), IsActive: false}}
	c, err := ApplyCoupon("GONE", coupons)
	require.ErrorIs(t, err, ErrCouponNotFound)

	lines := []domain.CartLine{{ProductID: "p1", Price: dec(100), Quantity: 1, Selected: true}}
	totals := ComputeCartTotal(lines, c, false)
	assertDec(t, 0, totals.Discount, "discount")
}
