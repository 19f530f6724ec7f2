package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/api/middleware"
	"github.com/velorashop/storefront-backend/api/responses"
	"github.com/velorashop/storefront-backend/api/validators"
	"github.com/velorashop/storefront-backend/internal/wishlist"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

func wishlistUser(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (uuid.UUID, bool) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id"))
		return uuid.Nil, false
	}
	return userID, true
}

type wishlistItemRequest struct {
	ProductCode     string          `json:"product_code" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category,omitempty"`
	Subcategory     string          `json:"subcategory,omitempty"`
	Stock           int             `json:"stock"`
	Rating          float64         `json:"rating" validate:"gte=0,lte=5"`
	DiscountPercent float64         `json:"discount_percent" validate:"gte=0,lte=100"`
}

func (req wishlistItemRequest) toSnapshot() wishlist.Snapshot {
	return wishlist.Snapshot{
		ProductCode:     req.ProductCode,
		Name:            req.Name,
		Price:           req.Price,
		Image:           req.Image,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Stock:           req.Stock,
		Rating:          req.Rating,
		DiscountPercent: req.DiscountPercent,
	}
}

// WishlistList returns the user's wishlist snapshots in insertion order.
func WishlistList(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userID, ok := wishlistUser(r, logg, w)
		if !ok {
			return
		}

		items, err := svc.List(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// WishlistAdd stores a product snapshot; adding an existing entry is a no-op.
func WishlistAdd(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userID, ok := wishlistUser(r, logg, w)
		if !ok {
			return
		}

		var payload wishlistItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Add(ctx, userID, payload.toSnapshot())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status := http.StatusCreated
		if result.AlreadyPresent {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}

// WishlistToggle adds the product when absent and removes it when present.
func WishlistToggle(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userID, ok := wishlistUser(r, logg, w)
		if !ok {
			return
		}

		var payload wishlistItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		added, err := svc.Toggle(ctx, userID, payload.toSnapshot())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"product_code": payload.ProductCode,
			"added":        added,
		})
	}
}

// WishlistRemove drops one entry; removing an absent one is a no-op.
func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
			return
		}
		userID, ok := wishlistUser(r, logg, w)
		if !ok {
			return
		}

		productCode := strings.TrimSpace(chi.URLParam(r, "productCode"))
		if productCode == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product code is required"))
			return
		}

		if err := svc.Remove(ctx, userID, productCode); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
