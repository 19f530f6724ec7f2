package wishlist

import (
	"github.com/shopspring/decimal"
)

// Snapshot is the denormalized product copy stored per wishlist entry. It is
// frozen at save time so the wishlist stays displayable even if the catalog
// row later changes or disappears.
type Snapshot struct {
	ProductCode     string          `json:"product_code"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category,omitempty"`
	Subcategory     string          `json:"subcategory,omitempty"`
	Stock           int             `json:"stock"`
	Rating          float64         `json:"rating"`
	DiscountPercent float64         `json:"discount_percent"`
}

// AddResult reports the outcome of an add: the stored snapshot and whether
// the entry already existed (in which case the call was a no-op).
type AddResult struct {
	Item           Snapshot `json:"item"`
	AlreadyPresent bool     `json:"already_present"`
}
