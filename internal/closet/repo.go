package closet

import (
	"context"

	"github.com/closetly/closetly-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes clothing-item persistence operations. Every query is
// scoped to the owning user.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a closet repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new clothing item and returns the persisted model.
func (r *Repository) Create(ctx context.Context, item *models.ClothingItem) (*models.ClothingItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListByUser returns all items owned by the user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClothingItem, error) {
	var items []models.ClothingItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID loads one item, constrained to the owner.
func (r *Repository) FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.ClothingItem, error) {
	var item models.ClothingItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the given items for the owner, in no particular order.
func (r *Repository) FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.ClothingItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.ClothingItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the item if the user owns it. It reports whether a row was
// actually removed so callers can 404 on foreign items.
func (r *Repository) Delete(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.ClothingItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
