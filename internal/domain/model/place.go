package model

import (
	"time"
)

type PlaceCategory string

const (
	CategoryGastronomy PlaceCategory = "gastronomy"
	CategoryWorkshop   PlaceCategory = "workshop"
	CategoryLodging    PlaceCategory = "lodging"
	CategoryAttraction PlaceCategory = "attraction"
)

func ParsePlaceCategory(s string) (PlaceCategory, bool) {
	switch PlaceCategory(s) {
	case CategoryGastronomy, CategoryWorkshop, CategoryLodging, CategoryAttraction:
		return PlaceCategory(s), true
	}
	return "", false
}

// Place is a published point of interest: a restaurant, a craft workshop,
// lodging or an attraction. The slug is derived from the name at creation
// and stays stable across renames so public URLs do not break.
type Place struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Category    PlaceCategory `json:"category"`
	Description string        `json:"description"`
	Address     string        `json:"address"`
	Published   bool          `json:"published"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
