package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	couponsvc "storefront/internal/service/coupon"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type staffTokenResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	ExpiresIn   int                  `json:"expires_in"`
	Account     *domain.StaffAccount `json:"account"`
}

func (h *handlers) staffLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	account, token, expiresAt, err := h.deps.StaffSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err, "sign in")
		return
	}
	c.JSON(http.StatusOK, staffTokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		Account:     account,
	})
}

func (h *handlers) staffLogout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	if err := h.deps.StaffSvc.Logout(c.Request.Context(), token); err != nil {
		h.writeError(c, err, "sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) staffMe(c *gin.Context) {
	c.JSON(http.StatusOK, staffAccount(c))
}

func (h *handlers) listStaff(c *gin.Context) {
	accounts, err := h.deps.StaffSvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "list staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": accounts, "count": len(accounts)})
}

func (h *handlers) createEmployee(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	account, err := h.deps.StaffSvc.CreateEmployee(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err, "create employee")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *handlers) deleteStaff(c *gin.Context) {
	if err := h.deps.StaffSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete staff account")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listCoupons(c *gin.Context) {
	coupons, err := h.deps.CouponSvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "list coupons")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": coupons, "count": len(coupons)})
}

func (h *handlers) createCoupon(c *gin.Context) {
	var in couponsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid coupon body")
		return
	}
	cp, err := h.deps.CouponSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "create coupon")
		return
	}
	c.JSON(http.StatusCreated, cp)
}

func (h *handlers) updateCoupon(c *gin.Context) {
	var in couponsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid coupon body")
		return
	}
	cp, err := h.deps.CouponSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, "update coupon")
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (h *handlers) deleteCoupon(c *gin.Context) {
	if err := h.deps.CouponSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete coupon")
		return
	}
	c.Status(http.StatusNoContent)
}
