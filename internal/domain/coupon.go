package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a flat-amount discount code.
type Coupon struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NormalizeCouponCode trims and upper-cases a code as entered by a shopper.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
