package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mvidales/storefront-backend/api/routes"
	"github.com/mvidales/storefront-backend/internal/address"
	"github.com/mvidales/storefront-backend/internal/cart"
	checkoutsvc "github.com/mvidales/storefront-backend/internal/checkout"
	"github.com/mvidales/storefront-backend/internal/coupons"
	"github.com/mvidales/storefront-backend/internal/orders"
	product "github.com/mvidales/storefront-backend/internal/products"
	"github.com/mvidales/storefront-backend/internal/promotion"
	"github.com/mvidales/storefront-backend/internal/users"
	"github.com/mvidales/storefront-backend/pkg/config"
	"github.com/mvidales/storefront-backend/pkg/db"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/metrics"
	"github.com/mvidales/storefront-backend/pkg/migrate"
	"github.com/mvidales/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	productRepo := product.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	addressRepo := address.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	couponRepo := coupons.NewRepository(dbClient.DB())
	cachedCoupons := coupons.NewCachedRepository(couponRepo, redisClient, cfg.Checkout.CouponCacheTTL, logg)

	referrals := promotion.NewDBReferralValidator(couponRepo, userRepo)
	resolver := promotion.NewResolver(cachedCoupons, referrals, orderRepo)
	applier := promotion.NewApplier(cartRepo, productRepo, resolver, checkoutMetrics, logg, cfg.Checkout.TaxRate)
	checkoutService := checkoutsvc.NewService(productRepo, addressRepo, userRepo, resolver, checkoutMetrics, logg, cfg.Checkout.TaxRate)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, checkoutService, applier),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
