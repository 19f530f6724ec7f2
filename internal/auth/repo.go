package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/velorashop/storefront-backend/pkg/db/models"
)

// Repository reads user accounts for authentication.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail looks a user up by their lowercased email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
