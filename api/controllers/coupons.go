package controllers

import (
	"net/http"

	"github.com/velorashop/storefront-backend/api/responses"
	"github.com/velorashop/storefront-backend/api/validators"
	"github.com/velorashop/storefront-backend/internal/coupon"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// CouponApply resolves a code and persists it as the session coupon. A
// failed lookup leaves any previously applied coupon untouched.
func CouponApply(svc coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		applied, err := svc.Apply(ctx, owner, payload.Code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, applied)
	}
}

// CouponClear removes the session coupon.
func CouponClear(svc coupon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
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
