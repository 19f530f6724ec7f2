package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WishlistItem stores a denormalized product snapshot per user. The copy keeps
// the wishlist displayable even if the catalog row later changes or disappears.
type WishlistItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_product_key"`
	ProductCode     string          `gorm:"column:product_code;not null;uniqueIndex:wishlist_items_user_product_key"`
	Name            string          `gorm:"column:name;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image           string          `gorm:"column:image"`
	Category        string          `gorm:"column:category"`
	Subcategory     string          `gorm:"column:subcategory"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	Rating          float64         `gorm:"column:rating;not null;default:0"`
	DiscountPercent float64         `gorm:"column:discount_percent;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
