package products

import (
	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog shape served to the storefront and snapshotted
// by the cart and wishlist layers.
type ProductDTO struct {
	Code            string                  `json:"code"`
	Name            string                  `json:"name"`
	Price           decimal.Decimal         `json:"price"`
	DiscountPercent float64                 `json:"discount_percent"`
	Image           string                  `json:"image,omitempty"`
	Category        string                  `json:"category,omitempty"`
	Subcategory     string                  `json:"subcategory,omitempty"`
	Sizes           []string                `json:"sizes,omitempty"`
	Stock           int                     `json:"stock"`
	Rating          float64                 `json:"rating"`
	IsCombo         bool                    `json:"is_combo"`
	ComboItems      []models.ComboComponent `json:"combo_items,omitempty"`
}

// ListFilter narrows a catalog listing.
type ListFilter struct {
	Category    string
	Subcategory string
	Limit       int
	Offset      int
}

func dtoFromModel(row models.Product) ProductDTO {
	return ProductDTO{
		Code:            row.Code,
		Name:            row.Name,
		Price:           row.Price,
		DiscountPercent: row.DiscountPercent,
		Image:           row.Image,
		Category:        row.Category,
		Subcategory:     row.Subcategory,
		Sizes:           row.Sizes,
		Stock:           row.Stock,
		Rating:          row.Rating,
		IsCombo:         row.IsCombo,
		ComboItems:      row.ComboItems,
	}
}
