package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// CartTotals is the breakdown shown in the cart and at checkout.
type CartTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	GiftWrapFee decimal.Decimal `json:"giftWrapFee"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeCartTotal sums the selected lines and applies the coupon and fees.
// The coupon is trusted as given; it was validated when it was applied.
func ComputeCartTotal(lines []domain.CartLine, coupon *domain.Coupon, giftWrap bool) CartTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if !line.Selected {
			continue
		}
		subtotal = subtotal.Add(line.LineTotal())
	}

	out := CartTotals{
		Subtotal:    subtotal,
		Discount:    decimal.Zero,
		DeliveryFee: DeliveryFeeFor(subtotal),
		GiftWrapFee: decimal.Zero,
	}
	if coupon != nil {
		out.Discount = coupon.Discount
	}
	if giftWrap {
		out.GiftWrapFee = GiftWrapFee
	}
	out.Total = floorZero(subtotal.Add(out.DeliveryFee).Add(out.GiftWrapFee).Sub(out.Discount))
	return out
}
