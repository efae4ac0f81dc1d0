// Package directions adapts the map widget's directions capability: given an
// ordered path it returns per-leg distance and duration. The totals shown on
// the map are computed from these legs, never from the route backend.
package directions

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

// Request mirrors a directions call: origin, destination and the stops in between.
type Request struct {
	Origin      models.PlaceRef
	Destination models.PlaceRef
	Waypoints   []models.PlaceRef
	Mode        string
}

// Stops returns every point of the request in travel order.
func (r Request) Stops() []models.PlaceRef {
	stops := make([]models.PlaceRef, 0, len(r.Waypoints)+2)
	stops = append(stops, r.Origin)
	stops = append(stops, r.Waypoints...)
	stops = append(stops, r.Destination)
	return stops
}

// Response holds the legs between consecutive stops.
type Response struct {
	Legs []models.Leg
}

// Service is the directions capability of the map widget.
type Service interface {
	Route(ctx context.Context, req Request) (*Response, error)
}

// RequestFor builds a request for an ordered path: first place is the
// origin, last the destination, the rest waypoints.
func RequestFor(path []models.Place, mode string) (Request, error) {
	if len(path) == 0 {
		return Request{}, fmt.Errorf("%w: cannot route an empty path", models.ErrValidation)
	}
	req := Request{
		Origin:      path[0].Ref(),
		Destination: path[len(path)-1].Ref(),
		Mode:        mode,
	}
	if len(path) > 2 {
		req.Waypoints = models.Refs(path[1 : len(path)-1])
	}
	return req, nil
}

// Options selects and tunes the directions adapter.
type Options struct {
	GoogleAPIKey    string
	AverageSpeedKmh float64
	Timeout         time.Duration
}

// NewService returns the Google Directions adapter when an API key is
// configured and the haversine estimator otherwise.
func NewService(opts Options, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.GoogleAPIKey != "" {
		logger.Info("Using Google Directions for route totals")
		return NewGoogleService(opts.GoogleAPIKey, opts.Timeout, logger)
	}
	logger.Info("No directions API key, estimating route totals from straight-line distance",
		zap.Float64("average_speed_kmh", opts.AverageSpeedKmh))
	return NewHaversineService(opts.AverageSpeedKmh)
}
