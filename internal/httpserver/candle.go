package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	candlesvc "storefront/internal/service/candle"
)

func (h *handlers) listActiveMaterials(c *gin.Context) {
	materials, err := h.deps.CandleSvc.ActiveMaterials(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "load materials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": materials, "count": len(materials)})
}

func (h *handlers) quoteCandle(c *gin.Context) {
	var in candlesvc.SelectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid candle selection")
		return
	}
	q, err := h.deps.CandleSvc.Quote(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "price candle")
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handlers) addCandleToCart(c *gin.Context) {
	var in candlesvc.SelectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid candle selection")
		return
	}
	view, err := h.deps.CandleSvc.AddToCart(c.Request.Context(), shopperID(c), in)
	if err != nil {
		h.writeError(c, err, "add candle to cart")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) listAllMaterials(c *gin.Context) {
	materials, err := h.deps.CandleSvc.AllMaterials(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "load materials")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": materials, "count": len(materials)})
}

func (h *handlers) createMaterial(c *gin.Context) {
	var in candlesvc.MaterialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid material body")
		return
	}
	m, err := h.deps.CandleSvc.CreateMaterial(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "create material")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *handlers) updateMaterial(c *gin.Context) {
	var in candlesvc.MaterialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid material body")
		return
	}
	m, err := h.deps.CandleSvc.UpdateMaterial(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, "update material")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handlers) deleteMaterial(c *gin.Context) {
	if err := h.deps.CandleSvc.DeleteMaterial(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete material")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listRules(c *gin.Context) {
	rules, err := h.deps.CandleSvc.Rules(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "load compatibility rules")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": rules, "count": len(rules)})
}

func (h *handlers) createRule(c *gin.Context) {
	var in candlesvc.RuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid rule body")
		return
	}
	r, err := h.deps.CandleSvc.CreateRule(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "create compatibility rule")
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handlers) updateRule(c *gin.Context) {
	var in candlesvc.RuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid rule body")
		return
	}
	r, err := h.deps.CandleSvc.UpdateRule(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, "update compatibility rule")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handlers) deleteRule(c *gin.Context) {
	if err := h.deps.CandleSvc.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete compatibility rule")
		return
	}
	c.Status(http.StatusNoContent)
}
