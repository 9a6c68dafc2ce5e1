package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	shoppersvc "storefront/internal/service/shopper"
	staffsvc "storefront/internal/service/staff"
)

type ctxKey string

const (
	shopperCtxKey ctxKey = "shopperID"
	staffCtxKey   ctxKey = "staff"
)

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// shopperAuth resolves the bearer token to a shopper id.
func shopperAuth(svc ShopperService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		id, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, shoppersvc.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			logger.Error("shopper token lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to verify token"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), shopperCtxKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// staffAuth admits staff accounts holding role. Owners pass every check.
func staffAuth(svc StaffService, role domain.StaffRole, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		account, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, staffsvc.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			logger.Error("staff token lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to verify token"})
			return
		}
		if err := staffsvc.Authorize(account, role); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), staffCtxKey, account)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func shopperID(c *gin.Context) string {
	id, _ := c.Request.Context().Value(shopperCtxKey).(string)
	return id
}

func staffAccount(c *gin.Context) *domain.StaffAccount {
	a, _ := c.Request.Context().Value(staffCtxKey).(*domain.StaffAccount)
	return a
}
