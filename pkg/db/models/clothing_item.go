package models

import (
	"time"

	dbtypes "github.com/closetly/closetly-backend/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClothingItem is one garment in a user's closet. Category is free text;
// the outfit picker matches it case-insensitively.
type ClothingItem struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"type:uuid;column:user_id;not null;index"`
	Category  string              `gorm:"column:category;not null"`
	Color     string              `gorm:"column:color"`
	Season    string              `gorm:"column:season"`
	ImageURL  string              `gorm:"column:image_url"`
	Tags      dbtypes.StringArray `gorm:"type:text;column:tags"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *ClothingItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
