package outfits

import (
	"context"

	"github.com/closetly/closetly-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists saved outfit suggestions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an outfits repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new outfit and returns the persisted model.
func (r *Repository) Create(ctx context.Context, outfit *models.Outfit) (*models.Outfit, error) {
	if err := r.db.WithContext(ctx).Create(outfit).Error; err != nil {
		return nil, err
	}
	return outfit, nil
}

// ListByUser returns the user's saved outfits, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Outfit, error) {
	var outfits []models.Outfit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&outfits).Error
	if err != nil {
		return nil, err
	}
	return outfits, nil
}
