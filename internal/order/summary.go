package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/pricing"
)

// SummaryInput carries everything that goes into an order confirmation.
type SummaryInput struct {
	OrderID     string
	Items       []domain.CartLine
	Totals      pricing.CartTotals
	CouponCode  string
	GiftWrap    bool
	Customer    domain.CheckoutInfo
	Message     string
	PaymentNote string
}

// BuildSummary renders the plain-text order summary relayed to the store.
// Output depends only on the input.
func BuildSummary(in SummaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %s\n\n", in.OrderID)

	b.WriteString("Items:\n")
	for i, line := range in.Items {
		name := line.Name
		if line.SelectedVariant != "" {
			name = fmt.Sprintf("%s (%s)", name, line.SelectedVariant)
		}
		fmt.Fprintf(&b, "%d. %s x%d @ %s = %s\n", i+1, name, line.Quantity, money(line.Price), money(line.LineTotal()))
		if line.Note != "" {
			fmt.Fprintf(&b, "   Note: %s\n", line.Note)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", money(in.Totals.Subtotal))
	fmt.Fprintf(&b, "Delivery Fee: %s\n", money(in.Totals.DeliveryFee))
	if in.GiftWrap {
		fmt.Fprintf(&b, "Gift Wrap: %s\n", money(in.Totals.GiftWrapFee))
	}
	if in.CouponCode != "" {
		fmt.Fprintf(&b, "Coupon (%s): -%s\n", in.CouponCode, money(in.Totals.Discount))
	}
	fmt.Fprintf(&b, "Total: %s\n\n", money(in.Totals.Total))

	b.WriteString("Customer:\n")
	fmt.Fprintf(&b, "Name: %s\n", in.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", in.Customer.Phone)
	fmt.Fprintf(&b, "Address: %s\n", in.Customer.Address)
	if in.Customer.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", in.Customer.Email)
	}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		fmt.Fprintf(&b, "\nMessage: %s\n", msg)
	}
	if in.PaymentNote != "" {
		fmt.Fprintf(&b, "\nPayment: %s\n", in.PaymentNote)
	}
	return b.String()
}

// BuildUpdateSummary renders the notice sent when a shopper changes an order.
func BuildUpdateSummary(rec domain.OrderRecord, change string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %s\n", rec.OrderID)
	fmt.Fprintf(&b, "Update: %s\n", change)
	fmt.Fprintf(&b, "Status: %s\n", rec.Status)
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Phone: %s\n", rec.Phone)
	fmt.Fprintf(&b, "Address: %s\n", rec.Address)
	fmt.Fprintf(&b, "Total: %s\n", money(rec.Total))
	return b.String()
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
