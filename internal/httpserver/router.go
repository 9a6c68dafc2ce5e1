package httpserver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/order"
	candlesvc "storefront/internal/service/candle"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	couponsvc "storefront/internal/service/coupon"
	productsvc "storefront/internal/service/product"
	profilesvc "storefront/internal/service/profile"
	reviewsvc "storefront/internal/service/review"
)

// ProductService is the catalog surface used by storefront and staff routes.
type ProductService interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetActive(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Upsert(ctx context.Context, name, slug string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type ReviewService interface {
	List(ctx context.Context, productID string) ([]domain.Review, error)
	Create(ctx context.Context, in reviewsvc.Input) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type ContentService interface {
	List(ctx context.Context, collection string) (map[string]map[string]interface{}, error)
	Get(ctx context.Context, collection, id string) (*domain.ContentDocument, error)
	Put(ctx context.Context, collection, id string, data map[string]interface{}) (*domain.ContentDocument, error)
	Delete(ctx context.Context, collection, id string) error
}

// CandleService covers the candle builder and its admin tables.
type CandleService interface {
	ActiveMaterials(ctx context.Context) ([]domain.Material, error)
	AllMaterials(ctx context.Context) ([]domain.Material, error)
	CreateMaterial(ctx context.Context, in candlesvc.MaterialInput) (*domain.Material, error)
	UpdateMaterial(ctx context.Context, id string, in candlesvc.MaterialInput) (*domain.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	Rules(ctx context.Context) ([]domain.CompatibilityRule, error)
	CreateRule(ctx context.Context, in candlesvc.RuleInput) (*domain.CompatibilityRule, error)
	UpdateRule(ctx context.Context, id string, in candlesvc.RuleInput) (*domain.CompatibilityRule, error)
	DeleteRule(ctx context.Context, id string) error
	Quote(ctx context.Context, in candlesvc.SelectionInput) (*candlesvc.Quote, error)
	AddToCart(ctx context.Context, shopperID string, in candlesvc.SelectionInput) (*cartsvc.View, error)
}

type CouponService interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, in couponsvc.Input) (*domain.Coupon, error)
	Update(ctx context.Context, id string, in couponsvc.Input) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	View(ctx context.Context, shopperID string) (*cartsvc.View, error)
	AddLine(ctx context.Context, shopperID string, in cartsvc.AddLineInput) (*cartsvc.View, error)
	SetQuantity(ctx context.Context, shopperID, productID, variant string, qty int) (*cartsvc.View, error)
	SetSelected(ctx context.Context, shopperID, productID, variant string, selected bool) (*cartsvc.View, error)
	RemoveLine(ctx context.Context, shopperID, productID, variant string) (*cartsvc.View, error)
	SetGiftWrap(ctx context.Context, shopperID string, on bool) (*cartsvc.View, error)
	ApplyCoupon(ctx context.Context, shopperID, code string) (*cartsvc.View, error)
	RemoveCoupon(ctx context.Context, shopperID string) (*cartsvc.View, error)
	Watch(ctx context.Context, shopperID string) (<-chan cartsvc.View, error)
}

type CheckoutService interface {
	Submit(ctx context.Context, shopperID string, in checkoutsvc.SubmitInput) (*domain.OrderRecord, error)
	State(shopperID string) order.SubmissionState
	History(ctx context.Context, shopperID string) ([]domain.OrderRecord, error)
	CheckoutInfo(ctx context.Context, shopperID string) (domain.CheckoutInfo, error)
	Cancel(ctx context.Context, shopperID, orderID string) (*domain.OrderRecord, error)
	ChangeDetails(ctx context.Context, shopperID, orderID string, in checkoutsvc.ChangeInput) (*domain.OrderRecord, error)
}

type ProfileService interface {
	Get(ctx context.Context, shopperID string) (domain.ProfileData, error)
	Update(ctx context.Context, shopperID string, in profilesvc.Input) (domain.ProfileData, error)
	Wishlist(ctx context.Context, shopperID string) ([]string, error)
	AddToWishlist(ctx context.Context, shopperID, productID string) ([]string, error)
	RemoveFromWishlist(ctx context.Context, shopperID, productID string) ([]string, error)
	StockNotifications(ctx context.Context, shopperID string) ([]string, error)
	NotifyWhenInStock(ctx context.Context, shopperID, productID string) ([]string, error)
}

type StaffService interface {
	Login(ctx context.Context, username, password string) (*domain.StaffAccount, string, time.Time, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.StaffAccount, error)
	List(ctx context.Context) ([]domain.StaffAccount, error)
	CreateEmployee(ctx context.Context, username, password string) (*domain.StaffAccount, error)
	Delete(ctx context.Context, id string) error
}

type ShopperService interface {
	Issue(ctx context.Context) (token, shopperID string, expiresAt time.Time, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	TTLSeconds() int
}

// Deps groups the services mounted by the router.
type Deps struct {
	ProductSvc  ProductService
	CategorySvc CategoryService
	ReviewSvc   ReviewService
	ContentSvc  ContentService
	CandleSvc   CandleService
	CouponSvc   CouponService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	ProfileSvc  ProfileService
	StaffSvc    StaffService
	ShopperSvc  ShopperService
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.ShopperSvc == nil || deps.StaffSvc == nil {
		return nil, errors.New("httpserver: shopper and staff services are required")
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(accessLog(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.CORSOrigins)))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{logger: logger, deps: deps}

	api := router.Group("/api")
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/reviews", h.listReviews)
	api.POST("/reviews", h.createReview)
	api.GET("/content/:collection", h.listContent)
	api.GET("/candle/materials", h.listActiveMaterials)
	api.POST("/candle/quote", h.quoteCandle)
	api.POST("/shoppers", h.issueShopper)
	api.POST("/staff/token", h.staffLogin)
	api.DELETE("/staff/token", h.staffLogout)

	me := api.Group("/me", shopperAuth(deps.ShopperSvc, logger))
	me.GET("/cart", h.viewCart)
	me.GET("/cart/stream", h.streamCart)
	me.POST("/cart/lines", h.addLine)
	me.PATCH("/cart/lines/:productId", h.updateLine)
	me.DELETE("/cart/lines/:productId", h.removeLine)
	me.PUT("/cart/gift-wrap", h.setGiftWrap)
	me.POST("/cart/coupon", h.applyCoupon)
	me.DELETE("/cart/coupon", h.removeCoupon)
	me.POST("/candle", h.addCandleToCart)
	me.POST("/checkout", h.submitOrder)
	me.GET("/checkout", h.checkoutState)
	me.GET("/checkout-info", h.checkoutInfo)
	me.GET("/orders", h.orderHistory)
	me.POST("/orders/:id/cancel", h.cancelOrder)
	me.PATCH("/orders/:id", h.changeOrder)
	me.GET("/profile", h.getProfile)
	me.PUT("/profile", h.updateProfile)
	me.GET("/wishlist", h.wishlist)
	me.PUT("/wishlist/:productId", h.addToWishlist)
	me.DELETE("/wishlist/:productId", h.removeFromWishlist)
	me.GET("/stock-notifications", h.stockNotifications)
	me.PUT("/stock-notifications/:productId", h.notifyWhenInStock)

	employee := api.Group("/employee", staffAuth(deps.StaffSvc, domain.RoleEmployee, logger))
	mountCatalogAdmin(employee, h)

	admin := api.Group("/admin", staffAuth(deps.StaffSvc, domain.RoleOwner, logger))
	mountCatalogAdmin(admin, h)
	admin.GET("/coupons", h.listCoupons)
	admin.POST("/coupons", h.createCoupon)
	admin.PUT("/coupons/:id", h.updateCoupon)
	admin.DELETE("/coupons/:id", h.deleteCoupon)
	admin.GET("/candle/materials", h.listAllMaterials)
	admin.POST("/candle/materials", h.createMaterial)
	admin.PUT("/candle/materials/:id", h.updateMaterial)
	admin.DELETE("/candle/materials/:id", h.deleteMaterial)
	admin.GET("/candle/rules", h.listRules)
	admin.POST("/candle/rules", h.createRule)
	admin.PUT("/candle/rules/:id", h.updateRule)
	admin.DELETE("/candle/rules/:id", h.deleteRule)
	admin.GET("/staff", h.listStaff)
	admin.POST("/staff", h.createEmployee)
	admin.DELETE("/staff/:id", h.deleteStaff)

	return router, nil
}

// mountCatalogAdmin registers the catalog and content routes shared by
// employees and owners.
func mountCatalogAdmin(g *gin.RouterGroup, h *handlers) {
	g.GET("/me", h.staffMe)
	g.GET("/products", h.listAllProducts)
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.POST("/categories", h.upsertCategory)
	g.DELETE("/categories/:id", h.deleteCategory)
	g.DELETE("/reviews/:id", h.deleteReview)
	g.PUT("/content/:collection/:id", h.putContent)
	g.POST("/content/:collection", h.putContent)
	g.DELETE("/content/:collection/:id", h.deleteContent)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// accessLog writes one structured line per request.
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= 500 {
			logger.Warn("http request", fields...)
			return
		}
		logger.Info("http request", fields...)
	}
}
