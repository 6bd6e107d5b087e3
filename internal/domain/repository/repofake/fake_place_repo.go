package repofake

import (
	"context"
	"sort"
	"sync"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"
)

type FakePlaceRepo struct {
	mu     sync.Mutex
	places map[string]*model.Place // keyed by slug
}

func NewFakePlaceRepo() *FakePlaceRepo {
	return &FakePlaceRepo{places: make(map[string]*model.Place)}
}

func (f *FakePlaceRepo) Create(_ context.Context, place *model.Place) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.places[place.Slug]; ok {
		return common.NewConflictError(common.CodeDuplicateResource, "A place with this slug already exists")
	}
	clone := *place
	f.places[place.Slug] = &clone
	return nil
}

func (f *FakePlaceRepo) FindBySlug(_ context.Context, slug string) (*model.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	place, ok := f.places[slug]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *place
	return &clone, nil
}

func (f *FakePlaceRepo) List(_ context.Context, category model.PlaceCategory, publishedOnly bool) ([]*model.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Place{}
	for _, place := range f.places {
		if category != "" && place.Category != category {
			continue
		}
		if publishedOnly && !place.Published {
			continue
		}
		clone := *place
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakePlaceRepo) Update(_ context.Context, place *model.Place) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.places[place.Slug]; !ok {
		return common.ErrNotFound
	}
	clone := *place
	f.places[place.Slug] = &clone
	return nil
}

func (f *FakePlaceRepo) Delete(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.places[slug]; !ok {
		return common.ErrNotFound
	}
	delete(f.places, slug)
	return nil
}
