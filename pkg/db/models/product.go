package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ComboComponent describes one underlying product inside a combo listing.
type ComboComponent struct {
	ProductCode string `json:"product_code"`
	Name        string `json:"name"`
	Size        string `json:"size,omitempty"`
}

// Product is a catalog row. A combo is a product whose ComboItems list the
// bundled components; simple products leave it empty and may carry sizes.
type Product struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code            string           `gorm:"column:code;not null;uniqueIndex:products_code_key"`
	Name            string           `gorm:"column:name;not null"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPercent float64          `gorm:"column:discount_percent;not null;default:0"`
	Image           string           `gorm:"column:image"`
	Category        string           `gorm:"column:category;index:products_category_idx"`
	Subcategory     string           `gorm:"column:subcategory"`
	Sizes           pq.StringArray   `gorm:"column:sizes;type:text[]"`
	Stock           int              `gorm:"column:stock;not null;default:0"`
	Rating          float64          `gorm:"column:rating;not null;default:0"`
	IsCombo         bool             `gorm:"column:is_combo;not null;default:false"`
	ComboItems      []ComboComponent `gorm:"column:combo_items;type:jsonb;serializer:json"`
	IsActive        bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
