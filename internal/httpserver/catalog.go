package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	productsvc "storefront/internal/service/product"
	reviewsvc "storefront/internal/service/review"
)

type handlers struct {
	logger *zap.Logger
	deps   Deps
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.List(c.Request.Context(), true)
	if err != nil {
		h.writeError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": products, "count": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.ProductSvc.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "load product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listAllProducts(c *gin.Context) {
	products, err := h.deps.ProductSvc.List(c.Request.Context(), false)
	if err != nil {
		h.writeError(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": products, "count": len(products)})
}

func (h *handlers) createProduct(c *gin.Context) {
	var in productsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	p, err := h.deps.ProductSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) updateProduct(c *gin.Context) {
	var in productsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	p, err := h.deps.ProductSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	if err := h.deps.ProductSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listCategories(c *gin.Context) {
	cats, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": cats, "count": len(cats)})
}

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *handlers) upsertCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid category body")
		return
	}
	cat, err := h.deps.CategorySvc.Upsert(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		h.writeError(c, err, "save category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *handlers) deleteCategory(c *gin.Context) {
	if err := h.deps.CategorySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listReviews(c *gin.Context) {
	reviews, err := h.deps.ReviewSvc.List(c.Request.Context(), c.Query("productId"))
	if err != nil {
		h.writeError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": reviews, "count": len(reviews)})
}

func (h *handlers) createReview(c *gin.Context) {
	var in reviewsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid review body")
		return
	}
	r, err := h.deps.ReviewSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "submit review")
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handlers) deleteReview(c *gin.Context) {
	if err := h.deps.ReviewSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "delete review")
		return
	}
	c.Status(http.StatusNoContent)
}

// listContent returns the collection keyed by document id.
func (h *handlers) listContent(c *gin.Context) {
	docs, err := h.deps.ContentSvc.List(c.Request.Context(), c.Param("collection"))
	if err != nil {
		h.writeError(c, err, "load content")
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handlers) putContent(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, "invalid content body")
		return
	}
	doc, err := h.deps.ContentSvc.Put(c.Request.Context(), c.Param("collection"), c.Param("id"), data)
	if err != nil {
		h.writeError(c, err, "save content")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *handlers) deleteContent(c *gin.Context) {
	if err := h.deps.ContentSvc.Delete(c.Request.Context(), c.Param("collection"), c.Param("id")); err != nil {
		h.writeError(c, err, "delete content")
		return
	}
	c.Status(http.StatusNoContent)
}
