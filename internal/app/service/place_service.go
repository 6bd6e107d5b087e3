package service

import (
	"context"
	"errors"
	"time"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"
	"arroyo_seco_api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type PlaceService struct {
	places repository.PlaceRepository
}

func NewPlaceService(places repository.PlaceRepository) *PlaceService {
	return &PlaceService{places: places}
}

type PlaceInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Published   bool   `json:"published"`
}

func (s *PlaceService) Create(ctx context.Context, input PlaceInput) (*model.Place, error) {
	if input.Name == "" || input.Category == "" {
		return nil, common.NewValidationError(common.CodeMissingFields, "Name and category are required")
	}
	category, ok := model.ParsePlaceCategory(input.Category)
	if !ok {
		return nil, common.NewValidationError(common.CodeInvalidCategory, "Unknown place category: "+input.Category)
	}

	now := time.Now()
	place := &model.Place{
		ID:          uuid.NewString(),
		Slug:        slug.Make(input.Name),
		Name:        input.Name,
		Category:    category,
		Description: input.Description,
		Address:     input.Address,
		Published:   input.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Slug collisions surface as DUPLICATE_RESOURCE from the repository.
	if err := s.places.Create(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// List returns published places only; drafts are reachable by slug for
// preview but never enumerated publicly.
func (s *PlaceService) List(ctx context.Context, category string) ([]*model.Place, error) {
	var parsed model.PlaceCategory
	if category != "" {
		var ok bool
		parsed, ok = model.ParsePlaceCategory(category)
		if !ok {
			return nil, common.NewValidationError(common.CodeInvalidCategory, "Unknown place category: "+category)
		}
	}
	return s.places.List(ctx, parsed, true)
}

func (s *PlaceService) Get(ctx context.Context, slugValue string) (*model.Place, error) {
	place, err := s.places.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewNotFoundError(common.CodePlaceNotFound, "Place not found")
		}
		return nil, err
	}
	return place, nil
}

// Update replaces the whole record with the given input. Only the slug is
// kept, so public URLs survive renames. Partial payloads are rejected the
// same way Create rejects them.
func (s *PlaceService) Update(ctx context.Context, slugValue string, input PlaceInput) (*model.Place, error) {
	if input.Name == "" || input.Category == "" {
		return nil, common.NewValidationError(common.CodeMissingFields, "Name and category are required")
	}
	category, ok := model.ParsePlaceCategory(input.Category)
	if !ok {
		return nil, common.NewValidationError(common.CodeInvalidCategory, "Unknown place category: "+input.Category)
	}

	place, err := s.Get(ctx, slugValue)
	if err != nil {
		return nil, err
	}

	place.Name = input.Name
	place.Category = category
	place.Description = input.Description
	place.Address = input.Address
	place.Published = input.Published
	place.UpdatedAt = time.Now()

	if err := s.places.Update(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

func (s *PlaceService) Delete(ctx context.Context, slugValue string) error {
	if err := s.places.Delete(ctx, slugValue); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewNotFoundError(common.CodePlaceNotFound, "Place not found")
		}
		return err
	}
	return nil
}
