package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	authsvc "github.com/velorashop/storefront-backend/internal/auth"
	"github.com/velorashop/storefront-backend/internal/cart"
	"github.com/velorashop/storefront-backend/internal/coupon"
	"github.com/velorashop/storefront-backend/internal/pricing"
	"github.com/velorashop/storefront-backend/internal/products"
	"github.com/velorashop/storefront-backend/internal/wishlist"
	pkgAuth "github.com/velorashop/storefront-backend/pkg/auth"
	"github.com/velorashop/storefront-backend/pkg/config"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, authsvc.Credentials) (*authsvc.TokenPair, error) {
	return &authsvc.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (stubAuthService) Refresh(context.Context, string, string) (*authsvc.TokenPair, error) {
	return &authsvc.TokenPair{AccessToken: "access2", RefreshToken: "refresh2"}, nil
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) List(context.Context, products.ListFilter) ([]products.ProductDTO, error) {
	return []products.ProductDTO{{Code: "tee-01", Name: "Basic Tee", Price: decimal.NewFromInt(20)}}, nil
}

func (stubProductsService) GetByCode(_ context.Context, code string) (*products.ProductDTO, error) {
	return &products.ProductDTO{Code: code, Name: "Basic Tee", Price: decimal.NewFromInt(20)}, nil
}

type stubCartService struct{}

func (stubCartService) Get(context.Context, string) (*cart.Snapshot, error) {
	return &cart.Snapshot{Items: []cart.LineItem{}, TotalPrice: decimal.Zero, Ready: true}, nil
}

func (stubCartService) AddItem(_ context.Context, _ string, input cart.AddItemInput) (*cart.LineItem, error) {
	return &cart.LineItem{
		Kind:        input.Kind,
		ProductCode: input.ProductCode,
		Name:        input.Name,
		Price:       input.Price,
		Quantity:    1,
	}, nil
}

func (stubCartService) UpdateQuantity(context.Context, string, string, int) error { return nil }
func (stubCartService) RemoveItem(context.Context, string, string) error          { return nil }
func (stubCartService) Clear(context.Context, string) error                       { return nil }

func (stubCartService) PricingLines(context.Context, string) ([]pricing.Line, error) {
	return nil, nil
}

func (stubCartService) OnItemAdded(cart.ItemAddedListener) {}

type stubCouponService struct{}

func (stubCouponService) Apply(_ context.Context, _ string, code string) (*coupon.Coupon, error) {
	return &coupon.Coupon{Code: code, DiscountType: coupon.DiscountTypePercentage, DiscountValue: decimal.NewFromFloat(0.1)}, nil
}

func (stubCouponService) Applied(context.Context, string) (*coupon.Coupon, error) {
	return nil, nil
}

func (stubCouponService) Clear(context.Context, string) error { return nil }

type stubWishlistService struct{}

func (stubWishlistService) List(context.Context, uuid.UUID) ([]wishlist.Snapshot, error) {
	return []wishlist.Snapshot{}, nil
}

func (stubWishlistService) IsInWishlist(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (stubWishlistService) Add(_ context.Context, _ uuid.UUID, item wishlist.Snapshot) (*wishlist.AddResult, error) {
	return &wishlist.AddResult{Item: item}, nil
}

func (stubWishlistService) Remove(context.Context, uuid.UUID, string) error { return nil }

func (stubWishlistService) Toggle(context.Context, uuid.UUID, wishlist.Snapshot) (bool, error) {
	return true, nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "velora-test",
			ExpirationMinutes: 15,
		},
		Pricing: config.PricingConfig{
			FreeShippingThreshold: decimal.NewFromInt(2000),
			BaseShippingCost:      decimal.RequireFromString("5.99"),
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		Sessions: stubSessionChecker{},
		Auth:     stubAuthService{},
		Products: stubProductsService{},
		Carts:    stubCartService{},
		Coupons:  stubCouponService{},
		Wishlist: stubWishlistService{},
	})
}

func mintTestToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "shopper@example.com",
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestProductsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "tee-01") {
		t.Fatalf("expected product in body, got %s", resp.Body.String())
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/coupons/apply"},
		{http.MethodGet, "/api/v1/wishlist"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, resp.Code)
		}
	}
}

func TestCartSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Ready bool `json:"ready"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !envelope.Data.Ready {
		t.Fatalf("expected ready cart snapshot")
	}
}

func TestQuoteEndpoint(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/quote", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "grand_total") {
		t.Fatalf("expected quote payload, got %s", resp.Body.String())
	}
}

func TestLoginRoute(t *testing.T) {
	router := newTestRouter(testConfig())

	body := strings.NewReader(`{"email":"shopper@example.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "access_token") {
		t.Fatalf("expected token pair, got %s", resp.Body.String())
	}
}
