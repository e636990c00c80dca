package closet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/closetly/closetly-backend/pkg/db/models"
	dbtypes "github.com/closetly/closetly-backend/pkg/db/types"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
)

// Service covers the closet operations exposed through the API.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*ClothingItemDTO, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]ClothingItemDTO, error)
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ClothingItemDTO, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type itemRepository interface {
	Create(ctx context.Context, item *models.ClothingItem) (*models.ClothingItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClothingItem, error)
	FindByID(ctx context.Context, userID, itemID uuid.UUID) (*models.ClothingItem, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) (bool, error)
}

type service struct {
	items itemRepository
}

// ServiceParams bundles the dependencies required to build a closet service.
type ServiceParams struct {
	ItemRepo itemRepository
}

// NewService constructs a closet service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ItemRepo == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	return &service{items: params.ItemRepo}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*ClothingItemDTO, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}

	item := &models.ClothingItem{
		UserID:   userID,
		Category: category,
		Color:    strings.TrimSpace(input.Color),
		Season:   strings.TrimSpace(input.Season),
		ImageURL: input.ImageURL,
		Tags:     dbtypes.StringArray(input.SplitTags()),
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create clothing item")
	}
	return FromModel(created), nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) ([]ClothingItemDTO, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list clothing items")
	}
	return FromModels(items), nil
}

func (s *service) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ClothingItemDTO, error) {
	item, err := s.items.FindByID(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "clothing item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup clothing item")
	}
	return FromModel(item), nil
}

func (s *service) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	removed, err := s.items.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete clothing item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "clothing item not found")
	}
	return nil
}
