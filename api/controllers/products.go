package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velorashop/storefront-backend/api/responses"
	"github.com/velorashop/storefront-backend/internal/products"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

// ProductsList serves the active catalog, optionally narrowed by
// category/subcategory slugs.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		filter := products.ListFilter{
			Category:    strings.TrimSpace(r.URL.Query().Get("category")),
			Subcategory: strings.TrimSpace(r.URL.Query().Get("subcategory")),
		}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			filter.Limit = value
		}
		if offsetStr := strings.TrimSpace(r.URL.Query().Get("offset")); offsetStr != "" {
			value, err := strconv.Atoi(offsetStr)
			if err != nil || value < 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "offset must not be negative"))
				return
			}
			filter.Offset = value
		}

		list, err := svc.List(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ProductGet serves one catalog entry by its code.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		dto, err := svc.GetByCode(ctx, code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
