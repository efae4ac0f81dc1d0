// Package mapview serves the map page data for an itinerary link.
package mapview

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/navigation"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/geo"
)

// Marker is one pin on the map.
type Marker struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Page is what the map view renders: the places of the link, a marker per
// place, and the initial centre.
type Page struct {
	Places  []models.PlaceRef `json:"places"`
	Markers []Marker          `json:"markers"`
	Center  Point             `json:"center"`
	Bounds  *Bounds           `json:"bounds,omitempty"`
}

// NewPage centres the map on the first place, or 0,0 for an empty list.
func NewPage(places []models.PlaceRef) Page {
	page := Page{
		Places:  places,
		Markers: make([]Marker, 0, len(places)),
	}
	if len(places) == 0 {
		return page
	}

	coords := make([][2]float64, 0, len(places))
	for _, p := range places {
		page.Markers = append(page.Markers, Marker{
			Name:  p.Name,
			Lat:   p.Lat,
			Lon:   p.Lon,
			Label: geo.FormatCoordinatesDisplay(p.Lat, p.Lon),
		})
		coords = append(coords, [2]float64{p.Lat, p.Lon})
	}
	page.Center = Point{Lat: places[0].Lat, Lon: places[0].Lon}

	minLat, maxLat, minLon, maxLon := geo.CalculateBounds(coords)
	if minLat != 0 || maxLat != 0 || minLon != 0 || maxLon != 0 {
		page.Bounds = &Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	}
	return page
}

type Handler struct {
	log *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	return &Handler{log: log}
}

// ShowMap decodes the places parameter. A malformed parameter shows an
// empty map rather than failing.
func (h *Handler) ShowMap(c *gin.Context) {
	places, err := navigation.FromQuery(c.Request.URL.Query())
	if err != nil {
		h.log.Warn("Malformed map parameter", zap.Error(err))
		places = []models.PlaceRef{}
	}
	c.JSON(http.StatusOK, NewPage(places))
}
