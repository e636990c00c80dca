package closet

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/pkg/db/models"
)

// ClothingItemDTO is the transport shape for a closet entry.
type ClothingItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Color     string    `json:"color,omitempty"`
	Season    string    `json:"season,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItemInput carries the parsed multipart fields for a new item. ImageURL
// is filled in by the controller after the upload service stores the file.
type AddItemInput struct {
	Category string
	Color    string
	Season   string
	Tags     string
	ImageURL string
}

// SplitTags turns the comma-separated tags field into a trimmed,
// empty-free slice.
func (in AddItemInput) SplitTags() []string {
	if strings.TrimSpace(in.Tags) == "" {
		return nil
	}
	parts := strings.Split(in.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func FromModel(item *models.ClothingItem) *ClothingItemDTO {
	if item == nil {
		return nil
	}
	tags := []string(item.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &ClothingItemDTO{
		ID:        item.ID,
		Category:  item.Category,
		Color:     item.Color,
		Season:    item.Season,
		ImageURL:  item.ImageURL,
		Tags:      tags,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func FromModels(items []models.ClothingItem) []ClothingItemDTO {
	dtos := make([]ClothingItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}
