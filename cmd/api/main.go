package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/kvstore"
	"storefront/internal/logging"
	"storefront/internal/migrate"
	"storefront/internal/notify"
	"storefront/internal/order"
	categoryrepo "storefront/internal/repository/category"
	contentrepo "storefront/internal/repository/content"
	couponrepo "storefront/internal/repository/coupon"
	materialrepo "storefront/internal/repository/material"
	productrepo "storefront/internal/repository/product"
	reviewrepo "storefront/internal/repository/review"
	rulerepo "storefront/internal/repository/rule"
	staffrepo "storefront/internal/repository/staff"
	tokenrepo "storefront/internal/repository/token"
	candlesvc "storefront/internal/service/candle"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	checkoutsvc "storefront/internal/service/checkout"
	contentsvc "storefront/internal/service/content"
	couponsvc "storefront/internal/service/coupon"
	productsvc "storefront/internal/service/product"
	profilesvc "storefront/internal/service/profile"
	reviewsvc "storefront/internal/service/review"
	shoppersvc "storefront/internal/service/shopper"
	staffsvc "storefront/internal/service/staff"
)

const tokenPruneInterval = time.Hour

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, "api")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool, logger.Named("migrate")); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	store := kvstore.NewPostgres(dbpool, logger.Named("kvstore"))
	go func() {
		if err := store.Listen(ctx); err != nil && ctx.Err() == nil {
			logger.Error("client state listener stopped", zap.Error(err))
		}
	}()

	var relay notify.Relay = notify.LogRelay{Logger: logger.Named("notify")}
	if cfg.NotifyURL != "" {
		relay = notify.NewHTTPRelay(notify.Config{
			URL:       cfg.NotifyURL,
			AccessKey: cfg.NotifyAccessKey,
			FromName:  cfg.NotifyFromName,
			Timeout:   cfg.NotifyTimeout,
			Logger:    logger.Named("notify"),
		})
	} else {
		logger.Warn("NOTIFY_URL not set, notifications are only logged")
	}

	catalog, err := cache.NewCatalog(cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	if err != nil {
		logger.Fatal("init catalog cache", zap.Error(err))
	}
	go func() {
		if err := catalog.Listen(ctx, dbpool, logger.Named("cache")); err != nil && ctx.Err() == nil {
			logger.Error("catalog cache listener stopped, entries now expire by ttl only", zap.Error(err))
		}
	}()

	tokenRepo := tokenrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productrepo.NewPostgres(dbpool, logger))
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool, logger))
	reviewService := reviewsvc.New(reviewrepo.NewPostgres(dbpool, logger), relay, logger.Named("review"))
	contentService := contentsvc.New(contentrepo.NewPostgres(dbpool, logger))
	couponService := couponsvc.New(couponrepo.NewPostgres(dbpool, logger))
	cartService := cartsvc.New(store, productService, couponService, logger.Named("cart"))
	candleService := candlesvc.New(materialrepo.NewPostgres(dbpool, logger), rulerepo.NewPostgres(dbpool, logger), catalog, cartService)
	checkoutService := checkoutsvc.New(checkoutsvc.Config{
		Store:       store,
		Cart:        cartService,
		Relay:       relay,
		IDs:         order.NewIDGenerator(cfg.StoreTag, nil),
		PaymentNote: cfg.PaymentNote,
		Logger:      logger.Named("checkout"),
	})
	profileService := profilesvc.New(store, productService)
	shopperService := shoppersvc.New(tokenRepo, cfg.ShopperTokenTTL)
	staffService := staffsvc.New(staffrepo.NewPostgres(dbpool, logger), tokenRepo, cfg.StaffTokenTTL)

	if cfg.OwnerPassword != "" {
		created, err := staffService.EnsureOwner(ctx, cfg.OwnerUsername, cfg.OwnerPassword)
		if err != nil {
			logger.Fatal("ensure owner account", zap.Error(err))
		}
		if created {
			logger.Info("owner account created", zap.String("username", cfg.OwnerUsername))
		}
	} else {
		logger.Warn("OWNER_PASSWORD not set, no owner account is bootstrapped")
	}

	go pruneTokens(ctx, staffService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categoryService,
		ReviewSvc:   reviewService,
		ContentSvc:  contentService,
		CandleSvc:   candleService,
		CouponSvc:   couponService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		ProfileSvc:  profileService,
		StaffSvc:    staffService,
		ShopperSvc:  shopperService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// pruneTokens drops expired shopper and staff tokens until ctx is done.
func pruneTokens(ctx context.Context, staff *staffsvc.Service, logger *zap.Logger) {
	ticker := time.NewTicker(tokenPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := staff.PruneTokens(ctx)
			if err != nil {
				logger.Warn("prune tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("pruned expired tokens", zap.Int64("count", n))
			}
		}
	}
}
