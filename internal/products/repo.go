package products

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/velorashop/storefront-backend/pkg/db/models"
)

const defaultListLimit = 50
const maxListLimit = 200

// Repository reads the product catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns active catalog rows matching the filter. Category and
// subcategory matching is slug-insensitive ("T Shirts" matches "t-shirts").
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset)

	if slug := NormalizeSlug(filter.Category); slug != "" {
		query = query.Where("LOWER(REPLACE(category, ' ', '-')) = ?", slug)
	}
	if slug := NormalizeSlug(filter.Subcategory); slug != "" {
		query = query.Where("LOWER(REPLACE(subcategory, ' ', '-')) = ?", slug)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByCode returns a single active catalog row.
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// NormalizeSlug lowercases and hyphenates a category path segment so URL
// slugs and stored labels compare equal.
func NormalizeSlug(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	return strings.ReplaceAll(trimmed, " ", "-")
}
