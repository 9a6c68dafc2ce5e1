package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/pricing"
	candlesvc "storefront/internal/service/candle"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	contentsvc "storefront/internal/service/content"
	shoppersvc "storefront/internal/service/shopper"
	staffsvc "storefront/internal/service/staff"
)

// statusFor maps a service error to an HTTP status. Zero means unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, pricing.ErrCouponNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, contentsvc.ErrUnknownCollection):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrDuplicateRule),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, order.ErrSubmissionInProgress),
		errors.Is(err, order.ErrNotPending),
		errors.Is(err, order.ErrEditWindowClosed),
		errors.Is(err, cartsvc.ErrStockExceeded),
		errors.Is(err, candlesvc.ErrIncompatible):
		return http.StatusConflict
	case errors.Is(err, staffsvc.ErrInvalidCredentials),
		errors.Is(err, staffsvc.ErrInvalidToken),
		errors.Is(err, shoppersvc.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, staffsvc.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, checkoutsvc.ErrSubmissionFailed):
		return http.StatusBadGateway
	}
	return 0
}

// writeError renders err. Unexpected errors are logged and hidden behind a
// generic "failed to <action>" message.
func (h *handlers) writeError(c *gin.Context, err error, action string) {
	status := statusFor(err)
	switch status {
	case 0:
		h.logger.Error("request failed", zap.String("action", action), zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action + ", please try again"})
	case http.StatusNotFound:
		c.JSON(status, gin.H{"error": "not found"})
	case http.StatusBadGateway:
		h.logger.Warn("upstream failure", zap.String("action", action), zap.Error(err))
		c.JSON(status, gin.H{"error": "failed to " + action + ", please try again"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
