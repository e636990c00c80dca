package models

import (
	"time"

	dbtypes "github.com/closetly/closetly-backend/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outfit is a saved triple of clothing item references (top, bottom, shoes).
type Outfit struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"type:uuid;column:user_id;not null;index"`
	ItemIDs   dbtypes.UUIDArray `gorm:"type:text;column:item_ids;not null"`
	Occasion  string            `gorm:"column:occasion"`
	Weather   string            `gorm:"column:weather"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (o *Outfit) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
