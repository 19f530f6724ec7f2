package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/internal/pricing"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
)

// ItemKind tags the two line item variants.
type ItemKind string

const (
	KindSimple ItemKind = "simple"
	KindCombo  ItemKind = "combo"
)

// identity keys join product code and size with a separator that cannot
// appear in either field
const identitySeparator = "\x00"

// ComboProduct describes one bundled product inside a combo line.
type ComboProduct struct {
	ProductCode string `json:"product_code"`
	Name        string `json:"name"`
	Size        string `json:"size,omitempty"`
}

// LineItem is one cart entry. Simple items are keyed by product code plus
// selected size; combos are keyed by their combo code and carry the bundle
// contents.
type LineItem struct {
	Kind            ItemKind        `json:"kind"`
	ProductCode     string          `json:"product_code,omitempty"`
	ComboCode       string          `json:"combo_code,omitempty"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	DiscountPercent float64         `json:"discount_percent,omitempty"`
	Image           string          `json:"image,omitempty"`
	SelectedSize    string          `json:"selected_size,omitempty"`
	ComboProducts   []ComboProduct  `json:"combo_products,omitempty"`
}

// IdentityKey returns the key that decides whether two add operations target
// the same line.
func (li LineItem) IdentityKey() string {
	if li.Kind == KindCombo {
		return li.ComboCode
	}
	return li.ProductCode + identitySeparator + li.SelectedSize
}

// PricingLine projects the item into the pricing engine's view.
func (li LineItem) PricingLine() pricing.Line {
	return pricing.Line{
		UnitPrice:       li.Price,
		DiscountPercent: li.DiscountPercent,
		Quantity:        li.Quantity,
	}
}

// Validate checks the per-kind required fields and shared invariants.
func (li LineItem) Validate() error {
	switch li.Kind {
	case KindSimple:
		if strings.TrimSpace(li.ProductCode) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product code is required")
		}
		if len(li.ComboProducts) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "simple items cannot carry combo products")
		}
	case KindCombo:
		if strings.TrimSpace(li.ComboCode) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "combo code is required")
		}
		if len(li.ComboProducts) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "combo items must list their bundled products")
		}
		if li.SelectedSize != "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "combos do not take a selected size")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown item kind")
	}

	if strings.TrimSpace(li.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if li.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}
	if li.DiscountPercent < 0 || li.DiscountPercent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	if li.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return nil
}
