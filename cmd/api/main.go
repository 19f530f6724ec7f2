package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/velorashop/storefront-backend/api/routes"
	authsvc "github.com/velorashop/storefront-backend/internal/auth"
	"github.com/velorashop/storefront-backend/internal/cart"
	"github.com/velorashop/storefront-backend/internal/coupon"
	"github.com/velorashop/storefront-backend/internal/products"
	"github.com/velorashop/storefront-backend/internal/wishlist"
	"github.com/velorashop/storefront-backend/pkg/auth/session"
	"github.com/velorashop/storefront-backend/pkg/config"
	"github.com/velorashop/storefront-backend/pkg/db"
	"github.com/velorashop/storefront-backend/pkg/logger"
	"github.com/velorashop/storefront-backend/pkg/metrics"
	"github.com/velorashop/storefront-backend/pkg/migrate"
	"github.com/velorashop/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Users:    authsvc.NewRepository(dbClient.DB()),
		Sessions: sessionManager,
		JWT:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cartStorage, err := cart.NewRedisStorage(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart storage", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Storage: cartStorage,
		Logger:  logg,
		Metrics: metrics.NewCartMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	cartService.OnItemAdded(func(ctx context.Context, event cart.ItemAddedEvent) {
		ctx = logg.WithFields(ctx, map[string]any{
			"item_name":      event.Item.Name,
			"quantity_delta": event.QuantityDelta,
		})
		logg.Info(ctx, "cart.item_added")
	})

	couponService, err := coupon.NewService(coupon.ServiceParams{
		Store:      redisClient,
		Keyer:      redisClient,
		IsNil:      redis.IsNil,
		SessionTTL: cfg.Cart.CouponSessionTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Remote: wishlist.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient.DB(),
			Redis:    redisClient,
			Sessions: sessionManager,
			Registry: registry,
			Auth:     authService,
			Products: productService,
			Carts:    cartService,
			Coupons:  couponService,
			Wishlist: wishlistService,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		logg.Info(ctx, "shutdown signal received")
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down")
}
