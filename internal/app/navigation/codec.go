// Package navigation carries an itinerary from the search view to the map
// view through a single URL query parameter.
package navigation

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

// PlacesParam is the query parameter holding the JSON-encoded itinerary.
const PlacesParam = "places"

// MapPath is the map view route relative to the public base URL.
const MapPath = "/map"

// Encode serializes the {name, lat, lon} projection of places to JSON.
func Encode(places []models.Place) (string, error) {
	b, err := json.Marshal(models.Refs(places))
	if err != nil {
		return "", fmt.Errorf("failed to encode itinerary: %w", err)
	}
	return string(b), nil
}

// Decode parses a parameter produced by Encode.
func Decode(raw string) ([]models.PlaceRef, error) {
	if raw == "" {
		return []models.PlaceRef{}, nil
	}
	var refs []models.PlaceRef
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil, fmt.Errorf("%w: malformed %s parameter: %v", models.ErrValidation, PlacesParam, err)
	}
	if refs == nil {
		refs = []models.PlaceRef{}
	}
	return refs, nil
}

// MapURL builds the map view link for an itinerary.
func MapURL(baseURL string, places []models.Place) (string, error) {
	encoded, err := Encode(places)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	u = u.JoinPath(MapPath)
	q := url.Values{}
	q.Set(PlacesParam, encoded)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FromQuery extracts the itinerary from map view query values.
func FromQuery(q url.Values) ([]models.PlaceRef, error) {
	return Decode(q.Get(PlacesParam))
}
