package httpserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	profilesvc "storefront/internal/service/profile"
)

type shopperTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	ShopperID   string `json:"shopperId"`
}

// issueShopper starts an anonymous shopper session.
func (h *handlers) issueShopper(c *gin.Context) {
	token, id, _, err := h.deps.ShopperSvc.Issue(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "start session")
		return
	}
	c.JSON(http.StatusCreated, shopperTokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.deps.ShopperSvc.TTLSeconds(),
		ShopperID:   id,
	})
}

func (h *handlers) viewCart(c *gin.Context) {
	view, err := h.deps.CartSvc.View(c.Request.Context(), shopperID(c))
	if err != nil {
		h.writeError(c, err, "load cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

// streamCart pushes a "cart" event with the full view on every change.
func (h *handlers) streamCart(c *gin.Context) {
	ctx := c.Request.Context()
	views, err := h.deps.CartSvc.Watch(ctx, shopperID(c))
	if err != nil {
		h.writeError(c, err, "watch cart")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case v, ok := <-views:
			if !ok {
				return false
			}
			c.SSEvent("cart", v)
			return true
		}
	})
}

func (h *handlers) addLine(c *gin.Context) {
	var in cartsvc.AddLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid cart line")
		return
	}
	view, err := h.deps.CartSvc.AddLine(c.Request.Context(), shopperID(c), in)
	if err != nil {
		h.writeError(c, err, "add to cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

type updateLineRequest struct {
	Quantity *int  `json:"quantity"`
	Selected *bool `json:"selected"`
}

func (h *handlers) updateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid cart update")
		return
	}
	if req.Quantity == nil && req.Selected == nil {
		badRequest(c, "quantity or selected is required")
		return
	}
	ctx := c.Request.Context()
	sid, pid, variant := shopperID(c), c.Param("productId"), c.Query("variant")

	var (
		view *cartsvc.View
		err  error
	)
	if req.Quantity != nil {
		view, err = h.deps.CartSvc.SetQuantity(ctx, sid, pid, variant, *req.Quantity)
		if err != nil {
			h.writeError(c, err, "update cart")
			return
		}
	}
	if req.Selected != nil {
		view, err = h.deps.CartSvc.SetSelected(ctx, sid, pid, variant, *req.Selected)
		if err != nil {
			h.writeError(c, err, "update cart")
			return
		}
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) removeLine(c *gin.Context) {
	view, err := h.deps.CartSvc.RemoveLine(c.Request.Context(), shopperID(c), c.Param("productId"), c.Query("variant"))
	if err != nil {
		h.writeError(c, err, "update cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

type giftWrapRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *handlers) setGiftWrap(c *gin.Context) {
	var req giftWrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid gift wrap body")
		return
	}
	view, err := h.deps.CartSvc.SetGiftWrap(c.Request.Context(), shopperID(c), req.Enabled)
	if err != nil {
		h.writeError(c, err, "update gift wrap")
		return
	}
	c.JSON(http.StatusOK, view)
}

type couponRequest struct {
	Code string `json:"code"`
}

func (h *handlers) applyCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid coupon body")
		return
	}
	view, err := h.deps.CartSvc.ApplyCoupon(c.Request.Context(), shopperID(c), req.Code)
	if err != nil {
		h.writeError(c, err, "apply coupon")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) removeCoupon(c *gin.Context) {
	view, err := h.deps.CartSvc.RemoveCoupon(c.Request.Context(), shopperID(c))
	if err != nil {
		h.writeError(c, err, "remove coupon")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) submitOrder(c *gin.Context) {
	var in checkoutsvc.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid checkout body")
		return
	}
	rec, err := h.deps.CheckoutSvc.Submit(c.Request.Context(), shopperID(c), in)
	if err != nil {
		h.writeError(c, err, "submit order")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *handlers) checkoutState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.deps.CheckoutSvc.State(shopperID(c))})
}

func (h *handlers) checkoutInfo(c *gin.Context) {
	info, err := h.deps.CheckoutSvc.CheckoutInfo(c.Request.Context(), shopperID(c))
	if err != nil {
		h.writeError(c, err, "load checkout details")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *handlers) orderHistory(c *gin.Context) {
	orders, err := h.deps.CheckoutSvc.History(c.Request.Context(), shopperID(c))
	if err != nil {
		h.writeError(c, err, "load orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": orders, "count": len(orders)})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	rec, err := h.deps.CheckoutSvc.Cancel(c.Request.Context(), shopperID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "cancel order")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handlers) changeOrder(c *gin.Context) {
	var in checkoutsvc.ChangeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid order update")
		return
	}
	rec, err := h.deps.CheckoutSvc.ChangeDetails(c.Request.Context(), shopperID(c), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handlers) getProfile(c *gin.Context) {
	p, err := h.deps.ProfileSvc.Get(c.Request.Context(), shopperID(c))
	if err != nil {
		h.writeError(c, err, "load profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) updateProfile(c *gin.Context) {
	var in profilesvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid profile body")
		return
	}
	p, err := h.deps.ProfileSvc.Update(c.Request.Context(), shopperID(c), in)
	if err != nil {
		h.writeError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) wishlist(c *gin.Context) {
	ids, err := h.deps.ProfileSvc.Wishlist(c.Request.Context(), shopperID(c))
	h.writeIDs(c, ids, err, "load wishlist")
}

func (h *handlers) addToWishlist(c *gin.Context) {
	ids, err := h.deps.ProfileSvc.AddToWishlist(c.Request.Context(), shopperID(c), c.Param("productId"))
	h.writeIDs(c, ids, err, "update wishlist")
}

func (h *handlers) removeFromWishlist(c *gin.Context) {
	ids, err := h.deps.ProfileSvc.RemoveFromWishlist(c.Request.Context(), shopperID(c), c.Param("productId"))
	h.writeIDs(c, ids, err, "update wishlist")
}

func (h *handlers) stockNotifications(c *gin.Context) {
	ids, err := h.deps.ProfileSvc.StockNotifications(c.Request.Context(), shopperID(c))
	h.writeIDs(c, ids, err, "load stock notifications")
}

func (h *handlers) notifyWhenInStock(c *gin.Context) {
	ids, err := h.deps.ProfileSvc.NotifyWhenInStock(c.Request.Context(), shopperID(c), c.Param("productId"))
	h.writeIDs(c, ids, err, "save stock notification")
}

func (h *handlers) writeIDs(c *gin.Context, ids []string, err error, action string) {
	if err != nil {
		h.writeError(c, err, action)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"productIds": ids})
}
