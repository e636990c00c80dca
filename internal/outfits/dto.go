package outfits

import (
	"time"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/internal/closet"
	"github.com/closetly/closetly-backend/pkg/db/models"
)

// SuggestRequest carries the optional context for an outfit draw.
type SuggestRequest struct {
	Occasion string `json:"occasion"`
	Weather  string `json:"weather"`
}

// OutfitDTO is a saved suggestion with its items expanded.
type OutfitDTO struct {
	ID        uuid.UUID                `json:"id"`
	Occasion  string                   `json:"occasion,omitempty"`
	Weather   string                   `json:"weather,omitempty"`
	Items     []closet.ClothingItemDTO `json:"items"`
	CreatedAt time.Time                `json:"created_at"`
}

func fromModel(outfit *models.Outfit, items []models.ClothingItem) *OutfitDTO {
	if outfit == nil {
		return nil
	}
	return &OutfitDTO{
		ID:        outfit.ID,
		Occasion:  outfit.Occasion,
		Weather:   outfit.Weather,
		Items:     closet.FromModels(items),
		CreatedAt: outfit.CreatedAt,
	}
}
