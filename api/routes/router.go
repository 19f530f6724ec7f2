package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/velorashop/storefront-backend/api/controllers"
	"github.com/velorashop/storefront-backend/api/middleware"
	authsvc "github.com/velorashop/storefront-backend/internal/auth"
	"github.com/velorashop/storefront-backend/internal/cart"
	"github.com/velorashop/storefront-backend/internal/coupon"
	"github.com/velorashop/storefront-backend/internal/pricing"
	"github.com/velorashop/storefront-backend/internal/products"
	"github.com/velorashop/storefront-backend/internal/wishlist"
	"github.com/velorashop/storefront-backend/pkg/auth/session"
	"github.com/velorashop/storefront-backend/pkg/config"
	"github.com/velorashop/storefront-backend/pkg/logger"
	"github.com/velorashop/storefront-backend/pkg/redis"
)

// Deps carries everything Router needs. Optional members (DB, Redis,
// Registry) may be nil; the affected routes degrade rather than panic.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth     authsvc.Service
	Products products.Service
	Carts    cart.Service
	Coupons  coupon.Service
	Wishlist wishlist.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.Products, logg))
		r.Get("/{code}", controllers.ProductGet(deps.Products, logg))
	})

	shippingRule := pricing.ShippingRule{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		BaseShippingCost:      cfg.Pricing.BaseShippingCost,
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Carts, logg))
			r.Delete("/", controllers.CartClear(deps.Carts, logg))
			r.Get("/quote", controllers.CartQuote(deps.Carts, deps.Coupons, shippingRule, logg))
			r.Post("/items", controllers.CartAddItem(deps.Carts, logg))
			r.Put("/items/{key}", controllers.CartUpdateQuantity(deps.Carts, logg))
			r.Delete("/items/{key}", controllers.CartRemoveItem(deps.Carts, logg))
		})

		r.Route("/api/v1/coupons", func(r chi.Router) {
			r.Post("/apply", controllers.CouponApply(deps.Coupons, logg))
			r.Delete("/", controllers.CouponClear(deps.Coupons, logg))
		})

		r.Route("/api/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Post("/toggle", controllers.WishlistToggle(deps.Wishlist, logg))
			r.Delete("/{productCode}", controllers.WishlistRemove(deps.Wishlist, logg))
		})
	})

	return r
}
