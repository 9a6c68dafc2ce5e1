package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/pricing"
	candlesvc "storefront/internal/service/candle"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	contentsvc "storefront/internal/service/content"
	staffsvc "storefront/internal/service/staff"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.Invalid("name is required"), http.StatusBadRequest},
		{pricing.ErrCouponNotFound, http.StatusBadRequest},
		{fmt.Errorf("load: %w", domain.ErrNotFound), http.StatusNotFound},
		{contentsvc.ErrUnknownCollection, http.StatusNotFound},
		{domain.ErrDuplicateRule, http.StatusConflict},
		{order.ErrSubmissionInProgress, http.StatusConflict},
		{order.ErrEditWindowClosed, http.StatusConflict},
		{cartsvc.ErrStockExceeded, http.StatusConflict},
		{candlesvc.ErrIncompatible, http.StatusConflict},
		{staffsvc.ErrInvalidCredentials, http.StatusUnauthorized},
		{staffsvc.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: %w", checkoutsvc.ErrSubmissionFailed, errors.New("relay 500")), http.StatusBadGateway},
		{errors.New("boom"), 0},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
