package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/internal/coupon"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Line is the minimal pricing view of a cart entry: per-unit pre-discount
// price, an optional percentage markdown (0-100), and a quantity.
type Line struct {
	UnitPrice       decimal.Decimal
	DiscountPercent float64
	Quantity        int
}

// ShippingRule carries the configured shipping thresholds.
type ShippingRule struct {
	FreeShippingThreshold decimal.Decimal
	BaseShippingCost      decimal.Decimal
}

// Quote is the raw pricing breakdown. GrandTotal is unclamped arithmetic;
// presentation layers clamp negative totals before display.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// DiscountedUnitPrice applies a percentage markdown to a per-unit price.
// The result never goes below zero.
func DiscountedUnitPrice(price decimal.Decimal, discountPercent float64) decimal.Decimal {
	if discountPercent <= 0 {
		if price.IsNegative() {
			return decimal.Zero
		}
		return price
	}
	factor := one.Sub(decimal.NewFromFloat(discountPercent).Div(hundred))
	discounted := price.Mul(factor)
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

// Subtotal sums discounted line totals over the cart.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		unit := DiscountedUnitPrice(line.UnitPrice, line.DiscountPercent)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// IsShippingWaiver reports whether the coupon is the fixed-amount form whose
// value exactly matches the base shipping cost. That coupon zeroes the
// shipping line instead of discounting items.
func IsShippingWaiver(c *coupon.Coupon, rule ShippingRule) bool {
	if c == nil {
		return false
	}
	return c.DiscountType == coupon.DiscountTypeFixed && c.DiscountValue.Equal(rule.BaseShippingCost)
}

// CouponDiscount computes the item-level discount contributed by the coupon.
func CouponDiscount(subtotal decimal.Decimal, c *coupon.Coupon, rule ShippingRule) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	switch c.DiscountType {
	case coupon.DiscountTypePercentage:
		return subtotal.Mul(c.DiscountValue)
	case coupon.DiscountTypeFixed:
		if IsShippingWaiver(c, rule) {
			return decimal.Zero
		}
		return c.DiscountValue
	default:
		return decimal.Zero
	}
}

// ShippingCost returns the shipping line for the given subtotal and coupon.
func ShippingCost(subtotal decimal.Decimal, c *coupon.Coupon, rule ShippingRule) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(rule.FreeShippingThreshold) {
		return decimal.Zero
	}
	if IsShippingWaiver(c, rule) {
		return decimal.Zero
	}
	return rule.BaseShippingCost
}

// QuoteFor computes the full breakdown for a cart and optional coupon.
// No rounding happens here; formatting is a display concern.
func QuoteFor(lines []Line, c *coupon.Coupon, rule ShippingRule) Quote {
	subtotal := Subtotal(lines)
	discount := CouponDiscount(subtotal, c, rule)
	shipping := ShippingCost(subtotal, c, rule)
	return Quote{
		Subtotal:       subtotal,
		CouponDiscount: discount,
		ShippingCost:   shipping,
		GrandTotal:     subtotal.Sub(discount).Add(shipping),
	}
}
