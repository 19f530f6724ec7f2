package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/api/middleware"
	"github.com/velorashop/storefront-backend/api/responses"
	"github.com/velorashop/storefront-backend/api/validators"
	cartsvc "github.com/velorashop/storefront-backend/internal/cart"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

// Identity keys can contain bytes that do not survive a URL path, so the
// API addresses lines by their base64url form.
func encodeItemKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func decodeItemKey(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item key")
	}
	return string(raw), nil
}

type cartLineResponse struct {
	Key string `json:"key"`
	cartsvc.LineItem
}

type cartResponse struct {
	Items      []cartLineResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	Ready      bool               `json:"ready"`
}

func newCartResponse(snap *cartsvc.Snapshot) cartResponse {
	items := make([]cartLineResponse, len(snap.Items))
	for i, item := range snap.Items {
		items[i] = cartLineResponse{Key: encodeItemKey(item.IdentityKey()), LineItem: item}
	}
	return cartResponse{
		Items:      items,
		TotalItems: snap.TotalItems,
		TotalPrice: snap.TotalPrice,
		Ready:      snap.Ready,
	}
}

func cartOwner(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (string, bool) {
	owner := middleware.UserIDFromContext(r.Context())
	if owner == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return owner, true
}

// CartGet returns the owner's cart snapshot including the ready flag.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		snap, err := svc.Get(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

type addCartItemRequest struct {
	Kind            string                  `json:"kind" validate:"required,oneof=simple combo"`
	ProductCode     string                  `json:"product_code,omitempty"`
	ComboCode       string                  `json:"combo_code,omitempty"`
	Name            string                  `json:"name" validate:"required"`
	Price           decimal.Decimal         `json:"price"`
	DiscountPercent float64                 `json:"discount_percent,omitempty" validate:"gte=0,lte=100"`
	Image           string                  `json:"image,omitempty"`
	SelectedSize    string                  `json:"selected_size,omitempty"`
	ComboProducts   []comboProductPayload   `json:"combo_products,omitempty" validate:"dive"`
	Quantity        int                     `json:"quantity,omitempty"`
}

type comboProductPayload struct {
	ProductCode string `json:"product_code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Size        string `json:"size,omitempty"`
}

func (req addCartItemRequest) toInput() cartsvc.AddItemInput {
	combos := make([]cartsvc.ComboProduct, len(req.ComboProducts))
	for i, cp := range req.ComboProducts {
		combos[i] = cartsvc.ComboProduct{ProductCode: cp.ProductCode, Name: cp.Name, Size: cp.Size}
	}
	if len(combos) == 0 {
		combos = nil
	}
	return cartsvc.AddItemInput{
		Kind:            cartsvc.ItemKind(req.Kind),
		ProductCode:     req.ProductCode,
		ComboCode:       req.ComboCode,
		Name:            req.Name,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Image:           req.Image,
		SelectedSize:    req.SelectedSize,
		ComboProducts:   combos,
		Quantity:        req.Quantity,
	}
}

// CartAddItem adds a product or combo line, merging with an existing line
// that shares the same identity.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, owner, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cartLineResponse{
			Key:      encodeItemKey(item.IdentityKey()),
			LineItem: *item,
		})
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// CartUpdateQuantity sets a line's quantity; values below one clamp to one.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		key, err := decodeItemKey(strings.TrimSpace(chi.URLParam(r, "key")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.UpdateQuantity(ctx, owner, key, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap, err := svc.Get(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartRemoveItem deletes a line; removing an absent line is a no-op.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		key, err := decodeItemKey(strings.TrimSpace(chi.URLParam(r, "key")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveItem(ctx, owner, key); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		snap, err := svc.Get(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snap))
	}
}

// CartClear empties the owner's cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		if err := svc.Clear(ctx, owner); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
