// Package pricing holds the pure money calculations used by the storefront:
// candle quotes, cart totals and coupon lookup. Nothing here performs I/O.
package pricing

import "github.com/shopspring/decimal"

var (
	// FreeDeliveryThreshold is the subtotal from which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(2000)
	// FlatDeliveryFee applies below FreeDeliveryThreshold.
	FlatDeliveryFee = decimal.NewFromInt(120)
	// GiftWrapFee is charged once per order when gift wrap is requested.
	GiftWrapFee = decimal.NewFromInt(20)
)

// DeliveryFeeFor returns the delivery fee for a subtotal.
func DeliveryFeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return FlatDeliveryFee
}

func floorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
