package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/api/responses"
	cartsvc "github.com/velorashop/storefront-backend/internal/cart"
	"github.com/velorashop/storefront-backend/internal/coupon"
	"github.com/velorashop/storefront-backend/internal/pricing"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

type quoteResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	Coupon         *coupon.Coupon  `json:"coupon,omitempty"`
}

// CartQuote prices the owner's cart against the applied coupon and the
// shipping rule. The engine's raw grand total may go negative when a fixed
// coupon exceeds the subtotal; it is clamped to zero here, at the edge.
func CartQuote(carts cartsvc.Service, coupons coupon.Service, rule pricing.ShippingRule, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if carts == nil || coupons == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout services unavailable"))
			return
		}
		owner, ok := cartOwner(r, logg, w)
		if !ok {
			return
		}

		lines, err := carts.PricingLines(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		applied, err := coupons.Applied(ctx, owner)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		quote := pricing.QuoteFor(lines, applied, rule)

		grand := quote.GrandTotal
		if grand.IsNegative() {
			grand = decimal.Zero
		}

		responses.WriteSuccess(w, quoteResponse{
			Subtotal:       quote.Subtotal,
			CouponDiscount: quote.CouponDiscount,
			ShippingCost:   quote.ShippingCost,
			GrandTotal:     grand,
			Coupon:         applied,
		})
	}
}
