package models

import (
	"fmt"
	"strconv"
)

// Place is a point of interest returned by the places backend.
type Place struct {
	Name  string  `json:"name"`
	Image string  `json:"image,omitempty"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// PlaceKey identifies a place by value so that the same attraction fetched
// by two different searches collapses to one itinerary entry.
type PlaceKey struct {
	Name string
	Lat  float64
	Lon  float64
}

// Key returns the stable identity of the place.
func (p Place) Key() PlaceKey {
	return PlaceKey{Name: p.Name, Lat: p.Lat, Lon: p.Lon}
}

func (k PlaceKey) String() string {
	return fmt.Sprintf("%s@%s,%s", k.Name,
		strconv.FormatFloat(k.Lat, 'f', -1, 64),
		strconv.FormatFloat(k.Lon, 'f', -1, 64))
}

// PlaceRef is the {name, lat, lon} projection sent to /save_places and
// carried in the map navigation parameter. The image is dropped.
type PlaceRef struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Ref projects the place onto its name and coordinates.
func (p Place) Ref() PlaceRef {
	return PlaceRef{Name: p.Name, Lat: p.Lat, Lon: p.Lon}
}

// Place widens the projection back to a Place without an image.
func (r PlaceRef) Place() Place {
	return Place{Name: r.Name, Lat: r.Lat, Lon: r.Lon}
}

// Refs projects a list of places.
func Refs(places []Place) []PlaceRef {
	refs := make([]PlaceRef, 0, len(places))
	for _, p := range places {
		refs = append(refs, p.Ref())
	}
	return refs
}

// ClonePlaces returns a copy of places that never aliases the input.
func ClonePlaces(places []Place) []Place {
	if places == nil {
		return nil
	}
	out := make([]Place, len(places))
	copy(out, places)
	return out
}
