package planner

import (
	"slices"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

// Itinerary is the ordered list of selected places, unique by PlaceKey.
// The zero value is empty and ready to use.
type Itinerary struct {
	places []models.Place
}

// Add appends place unless an entry with the same key exists.
func (it *Itinerary) Add(place models.Place) bool {
	if it.Contains(place) {
		return false
	}
	it.places = append(it.places, place)
	return true
}

// Remove deletes the first entry with the same key as place.
func (it *Itinerary) Remove(place models.Place) bool {
	key := place.Key()
	i := slices.IndexFunc(it.places, func(p models.Place) bool { return p.Key() == key })
	if i < 0 {
		return false
	}
	it.places = slices.Delete(it.places, i, i+1)
	return true
}

func (it *Itinerary) Contains(place models.Place) bool {
	key := place.Key()
	return slices.ContainsFunc(it.places, func(p models.Place) bool { return p.Key() == key })
}

func (it *Itinerary) Len() int {
	return len(it.places)
}

// Places returns a copy in insertion order.
func (it *Itinerary) Places() []models.Place {
	out := make([]models.Place, len(it.places))
	copy(out, it.places)
	return out
}
