package outfits

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/pkg/db/models"
	dbtypes "github.com/closetly/closetly-backend/pkg/db/types"
	"github.com/closetly/closetly-backend/pkg/enums"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
)

// Rand supplies the slot draws. Production seeds math/rand per process;
// tests inject a fixed-seed source for deterministic suggestions.
type Rand interface {
	Intn(n int) int
}

// Service covers outfit suggestion and history.
type Service interface {
	Suggest(ctx context.Context, userID uuid.UUID, req SuggestRequest) (*OutfitDTO, error)
	ListOutfits(ctx context.Context, userID uuid.UUID) ([]OutfitDTO, error)
}

type itemRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ClothingItem, error)
	FindByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.ClothingItem, error)
}

type outfitRepository interface {
	Create(ctx context.Context, outfit *models.Outfit) (*models.Outfit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Outfit, error)
}

type service struct {
	items   itemRepository
	outfits outfitRepository
	rng     Rand
}

// ServiceParams bundles the dependencies required to build an outfit service.
// Rand is optional; when nil a time-seeded source is used.
type ServiceParams struct {
	ItemRepo   itemRepository
	OutfitRepo outfitRepository
	Rand       Rand
}

// NewService constructs an outfit service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ItemRepo == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	if params.OutfitRepo == nil {
		return nil, fmt.Errorf("outfit repository is required")
	}
	rng := params.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &service{
		items:   params.ItemRepo,
		outfits: params.OutfitRepo,
		rng:     rng,
	}, nil
}

// Suggest partitions the user's closet into top/bottom/shoes and draws one
// item per slot, each draw independent and uniform over the slot's items.
func (s *service) Suggest(ctx context.Context, userID uuid.UUID, req SuggestRequest) (*OutfitDTO, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list clothing items")
	}

	slots := enums.OutfitSlots()
	buckets := make(map[enums.Category][]models.ClothingItem, len(slots))
	for _, item := range items {
		for _, slot := range slots {
			if slot.Matches(item.Category) {
				buckets[slot] = append(buckets[slot], item)
				break
			}
		}
	}

	var missing []string
	for _, slot := range slots {
		if len(buckets[slot]) == 0 {
			missing = append(missing, slot.String())
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientItems,
			"add at least one top, bottom, and pair of shoes to get suggestions").
			WithDetails(map[string]any{"missing_categories": missing})
	}

	drawn := make([]models.ClothingItem, 0, len(slots))
	ids := make(dbtypes.UUIDArray, 0, len(slots))
	for _, slot := range slots {
		bucket := buckets[slot]
		pick := bucket[s.rng.Intn(len(bucket))]
		drawn = append(drawn, pick)
		ids = append(ids, pick.ID)
	}

	outfit := &models.Outfit{
		UserID:   userID,
		ItemIDs:  ids,
		Occasion: strings.TrimSpace(req.Occasion),
		Weather:  strings.TrimSpace(req.Weather),
	}
	saved, err := s.outfits.Create(ctx, outfit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save outfit")
	}

	return fromModel(saved, drawn), nil
}

// ListOutfits returns the user's saved outfits with their items expanded, in
// the stored top/bottom/shoes order. Items deleted since the outfit was
// saved are simply absent from the expansion.
func (s *service) ListOutfits(ctx context.Context, userID uuid.UUID) ([]OutfitDTO, error) {
	saved, err := s.outfits.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list outfits")
	}

	unique := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, outfit := range saved {
		for _, id := range outfit.ItemIDs {
			if _, seen := unique[id]; !seen {
				unique[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	items, err := s.items.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "expand outfit items")
	}
	byID := make(map[uuid.UUID]models.ClothingItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	dtos := make([]OutfitDTO, 0, len(saved))
	for i := range saved {
		var expanded []models.ClothingItem
		for _, id := range saved[i].ItemIDs {
			if item, ok := byID[id]; ok {
				expanded = append(expanded, item)
			}
		}
		dtos = append(dtos, *fromModel(&saved[i], expanded))
	}
	return dtos, nil
}
