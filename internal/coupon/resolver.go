package coupon

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
)

// staticTable is the build-time coupon catalog. Codes are stored uppercase;
// lookups normalize input before matching.
var staticTable = map[string]Coupon{
	"WELCOME10": {
		Code:          "WELCOME10",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: decimal.NewFromFloat(0.1),
	},
	"SUMMER20": {
		Code:          "SUMMER20",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: decimal.NewFromFloat(0.2),
	},
	"SAVE50": {
		Code:          "SAVE50",
		DiscountType:  DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50),
	},
	// matches the base shipping cost, so it waives shipping instead of
	// discounting items
	"FREESHIP": {
		Code:          "FREESHIP",
		DiscountType:  DiscountTypeFixed,
		DiscountValue: decimal.RequireFromString("5.99"),
	},
}

// Normalize trims surrounding whitespace and uppercases a raw coupon code.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Resolve validates a raw user-supplied code against the static table.
func Resolve(raw string) (*Coupon, error) {
	code := Normalize(raw)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	c, ok := staticTable[code]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid coupon code")
	}
	return &c, nil
}
