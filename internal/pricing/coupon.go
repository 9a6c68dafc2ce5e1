package pricing

import (
	"errors"

	"storefront/internal/domain"
)

// ErrCouponNotFound is returned when no active coupon matches the code.
var ErrCouponNotFound = errors.New("invalid or inactive coupon code")

// ApplyCoupon returns the first active coupon whose code equals the
// normalized input.
func ApplyCoupon(code string, coupons []domain.Coupon) (*domain.Coupon, error) {
	normalized := domain.NormalizeCouponCode(code)
	if normalized == "" {
		return nil, ErrCouponNotFound
	}
	for i := range coupons {
		c := coupons[i]
		if c.IsActive && domain.NormalizeCouponCode(c.Code) == normalized {
			return &c, nil
		}
	}
	return nil, ErrCouponNotFound
}
