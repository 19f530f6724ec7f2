package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velorashop/storefront-backend/pkg/db/models"
)

// Repository encapsulates wishlist persistence. It is the remote collection
// the synchronization layer reconciles against.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchAll returns the user's saved snapshots in insertion order.
func (r *Repository) FetchAll(ctx context.Context, userID uuid.UUID) ([]Snapshot, error) {
	if userID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	var rows []models.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, snapshotFromModel(row))
	}
	return snapshots, nil
}

// Add inserts a wishlist entry and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID uuid.UUID, snapshot Snapshot) error {
	if userID == uuid.Nil || snapshot.ProductCode == "" {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (user_id, product_code, name, price, image, category, subcategory, stock, rating, discount_percent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, product_code) DO NOTHING`,
			userID, snapshot.ProductCode, snapshot.Name, snapshot.Price, snapshot.Image,
			snapshot.Category, snapshot.Subcategory, snapshot.Stock, snapshot.Rating, snapshot.DiscountPercent).
		Error
}

// Remove deletes the user-product entry if it exists.
func (r *Repository) Remove(ctx context.Context, userID uuid.UUID, productCode string) error {
	if userID == uuid.Nil || productCode == "" {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_code = ?", userID, productCode).
		Delete(&models.WishlistItem{}).
		Error
}

func snapshotFromModel(row models.WishlistItem) Snapshot {
	return Snapshot{
		ProductCode:     row.ProductCode,
		Name:            row.Name,
		Price:           row.Price,
		Image:           row.Image,
		Category:        row.Category,
		Subcategory:     row.Subcategory,
		Stock:           row.Stock,
		Rating:          row.Rating,
		DiscountPercent: row.DiscountPercent,
	}
}
