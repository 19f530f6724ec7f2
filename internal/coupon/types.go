package coupon

import (
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes fractional and flat-amount coupons.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Coupon is the resolved descriptor applied to a cart. DiscountValue is a
// fraction (0.1 = 10%) for percentage coupons and a currency amount for
// fixed ones. A fixed value equal to the configured base shipping cost is
// interpreted downstream as a shipping waiver, not an item discount.
type Coupon struct {
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}
