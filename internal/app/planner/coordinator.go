// Package planner coordinates one user's search, itinerary and map views.
//
// All state lives behind a mutex and network calls run outside it. Every
// search and route request takes a sequence number; a response is applied
// only if no newer request of the same kind was issued meanwhile, so the
// latest request wins regardless of the order responses arrive in.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/FACorreiaa/go-tripplanner/internal/app/directions"
	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/navigation"
	"github.com/FACorreiaa/go-tripplanner/internal/observability/metrics"
)

// Backend is the subset of the travel backend the coordinator calls.
type Backend interface {
	FetchPlaces(ctx context.Context, city string) ([]models.Place, error)
	Route(ctx context.Context, algorithm models.Algorithm, places []models.Place) ([]models.Place, error)
}

// Persister stores a navigated itinerary without blocking navigation.
type Persister interface {
	Persist(ctx context.Context, places []models.Place)
}

// Options wires a Coordinator.
type Options struct {
	Backend    Backend
	Directions directions.Service
	// Persister may be nil, in which case navigation never persists.
	Persister Persister
	// MapBaseURL prefixes the map view link returned by Navigate.
	MapBaseURL string
	TravelMode string
	Logger     *zap.Logger
}

// Coordinator is the view-state machine of a single planning session.
type Coordinator struct {
	backend    Backend
	directions directions.Service
	persister  Persister
	mapBaseURL string
	travelMode string
	logger     *zap.Logger

	mu        sync.Mutex
	state     viewState
	searchSeq uint64
	routeSeq  uint64
}

func New(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		backend:    opts.Backend,
		directions: opts.Directions,
		persister:  opts.Persister,
		mapBaseURL: opts.MapBaseURL,
		travelMode: opts.TravelMode,
		logger:     logger,
		state:      newViewState(),
	}
}

// Snapshot returns a copy of the current view state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.snapshot()
}

// SetCity records the search box text without searching.
func (c *Coordinator) SetCity(city string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.city = city
	return c.state.snapshot()
}

// NormalizeCity trims and NFC-normalizes user input.
func NormalizeCity(city string) string {
	return norm.NFC.String(strings.TrimSpace(city))
}

// Search submits a city search. An empty city fails validation without any
// network call. On failure the previous results stay in place.
func (c *Coordinator) Search(ctx context.Context, city string) (Snapshot, error) {
	ctx, span := otel.Tracer("Planner").Start(ctx, "Search")
	defer span.End()

	l := c.logger.With(zap.String("method", "Search"))
	m := metrics.Get()

	city = NormalizeCity(city)
	if city == "" {
		c.mu.Lock()
		c.state.city = ""
		c.state.lastError = models.ErrEmptyCity.Error()
		snap := c.state.snapshot()
		c.mu.Unlock()

		m.SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "invalid")))
		span.SetStatus(codes.Error, "empty city")
		return snap, models.ErrEmptyCity
	}
	span.SetAttributes(attribute.String("city", city))

	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	if c.state.phase == PhaseRouteRequested {
		// A new search abandons the pending route.
		c.routeSeq++
	}
	c.state.city = city
	c.state.lastError = ""
	c.state.begin(PhaseSearching)
	c.mu.Unlock()

	l.Info("Searching places", zap.String("city", city), zap.Uint64("seq", seq))
	places, err := c.backend.FetchPlaces(ctx, city)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.searchSeq {
		l.Debug("Discarding superseded search response", zap.String("city", city), zap.Uint64("seq", seq))
		m.StaleResponsesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "search")))
		return c.state.snapshot(), models.ErrStaleResponse
	}
	if c.state.phase != PhaseSearching {
		// Navigation moved on while the request was in flight.
		return c.state.snapshot(), models.ErrStaleResponse
	}

	if err != nil {
		l.Error("Failed to fetch places", zap.String("city", city), zap.Error(err))
		m.SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch places failed")
		c.state.phase = c.state.returnPhase
		c.state.lastError = err.Error()
		return c.state.snapshot(), fmt.Errorf("search %q: %w", city, err)
	}

	if c.state.returnPhase.InMap() {
		c.state.leaveMap()
	}
	c.state.results = models.ClonePlaces(places)
	c.state.phase = PhaseResultsShown

	l.Info("Search completed", zap.String("city", city), zap.Int("count", len(places)))
	m.SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "")
	return c.state.snapshot(), nil
}

// Add appends place to the itinerary and opens the panel. Adding a place
// already present is a no-op.
func (c *Coordinator) Add(place models.Place) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	added := c.state.itinerary.Add(place)
	if added {
		c.state.panelOpen = true
		c.logger.Debug("Added place to itinerary",
			zap.String("place", place.Key().String()),
			zap.Int("itinerary_len", c.state.itinerary.Len()))
	}
	return c.state.snapshot(), added
}

// Remove deletes place from the itinerary, closing the panel once empty.
func (c *Coordinator) Remove(place models.Place) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.state.itinerary.Remove(place)
	if removed && c.state.itinerary.Len() == 0 {
		c.state.panelOpen = false
	}
	return c.state.snapshot(), removed
}

// ClosePanel hides the itinerary panel without touching its contents.
func (c *Coordinator) ClosePanel() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.panelOpen = false
	return c.state.snapshot()
}

// TogglePanel flips the itinerary panel. An empty itinerary keeps it closed.
func (c *Coordinator) TogglePanel() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.panelOpen = !c.state.panelOpen && c.state.itinerary.Len() > 0
	return c.state.snapshot()
}

// Navigate freezes the itinerary as the trip and switches to the map view.
// Persistence is handed to the persister and never delays navigation.
func (c *Coordinator) Navigate(ctx context.Context) (Snapshot, error) {
	ctx, span := otel.Tracer("Planner").Start(ctx, "Navigate")
	defer span.End()

	c.mu.Lock()
	if c.state.itinerary.Len() == 0 {
		c.state.lastError = models.ErrEmptyItinerary.Error()
		snap := c.state.snapshot()
		c.mu.Unlock()
		span.SetStatus(codes.Error, "empty itinerary")
		return snap, models.ErrEmptyItinerary
	}

	trip := c.state.itinerary.Places()
	mapURL, err := navigation.MapURL(c.mapBaseURL, trip)
	if err != nil {
		c.mu.Unlock()
		span.RecordError(err)
		return c.Snapshot(), err
	}

	// In-flight searches and routes no longer belong to the visible view.
	c.searchSeq++
	c.routeSeq++
	c.state.leaveMap()
	c.state.trip = trip
	c.state.mapURL = mapURL
	c.state.phase = PhaseMapView
	c.state.lastError = ""
	snap := c.state.snapshot()
	c.mu.Unlock()

	c.logger.Info("Navigated to map", zap.String("method", "Navigate"), zap.Int("trip_len", len(trip)))
	span.SetAttributes(attribute.Int("trip.length", len(trip)))

	if c.persister != nil {
		c.persister.Persist(ctx, models.ClonePlaces(trip))
	}
	return snap, nil
}

// BackToSearch leaves the map view.
func (c *Coordinator) BackToSearch() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.phase.InMap() {
		return c.state.snapshot(), fmt.Errorf("%w: back to search from %s", models.ErrInvalidTransition, c.state.phase)
	}
	c.routeSeq++
	c.state.leaveMap()
	if len(c.state.results) > 0 {
		c.state.phase = PhaseResultsShown
	} else {
		c.state.phase = PhaseIdle
	}
	return c.state.snapshot(), nil
}

// RequestRoute asks the backend to route the trip with algorithm, then asks
// the directions service for leg totals. Any failure leaves the rendered
// path and route info as they were.
func (c *Coordinator) RequestRoute(ctx context.Context, algorithm models.Algorithm) (Snapshot, error) {
	ctx, span := otel.Tracer("Planner").Start(ctx, "RequestRoute")
	defer span.End()
	span.SetAttributes(attribute.String("algorithm", string(algorithm)))

	l := c.logger.With(zap.String("method", "RequestRoute"), zap.String("algorithm", string(algorithm)))
	m := metrics.Get()
	routeType := models.RouteTypeFor(algorithm)
	if routeType == models.RouteNotCalculated {
		return c.Snapshot(), fmt.Errorf("%w: %q", models.ErrUnknownAlgorithm, algorithm)
	}

	c.mu.Lock()
	if !c.state.phase.InMap() {
		snap := c.state.snapshot()
		c.mu.Unlock()
		return snap, fmt.Errorf("%w: route from %s", models.ErrInvalidTransition, snap.Phase)
	}
	c.routeSeq++
	seq := c.routeSeq
	trip := models.ClonePlaces(c.state.trip)
	c.state.lastError = ""
	c.state.begin(PhaseRouteRequested)
	c.mu.Unlock()

	path, legs, err := c.fetchRoute(ctx, algorithm, trip)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.routeSeq {
		l.Debug("Discarding superseded route response", zap.Uint64("seq", seq))
		m.StaleResponsesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "route")))
		return c.state.snapshot(), models.ErrStaleResponse
	}

	outcome := attribute.String("outcome", "ok")
	if err != nil {
		outcome = attribute.String("outcome", "error")
		m.RouteRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("algorithm", string(algorithm)), outcome))
		l.Error("Route request failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "route failed")
		c.state.phase = c.state.returnPhase
		c.state.lastError = err.Error()
		return c.state.snapshot(), err
	}

	c.state.path = path
	c.state.route = models.SumLegs(routeType, legs)
	c.state.phase = PhaseRouteDisplayed

	m.RouteRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("algorithm", string(algorithm)), outcome))
	l.Info("Route displayed",
		zap.Int("path_len", len(path)),
		zap.Float64("total_distance_m", c.state.route.TotalDistance),
		zap.Duration("total_time", c.state.route.TotalTime))
	span.SetStatus(codes.Ok, "")
	return c.state.snapshot(), nil
}

func (c *Coordinator) fetchRoute(ctx context.Context, algorithm models.Algorithm, trip []models.Place) ([]models.Place, []models.Leg, error) {
	path, err := c.backend.Route(ctx, algorithm, trip)
	if err != nil {
		return nil, nil, fmt.Errorf("%s route: %w", algorithm, err)
	}
	if c.directions == nil {
		return nil, nil, fmt.Errorf("%w: no directions service configured", models.ErrDirections)
	}

	req, err := directions.RequestFor(path, c.travelMode)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.directions.Route(ctx, req)
	if err != nil {
		if !errors.Is(err, models.ErrDirections) {
			err = fmt.Errorf("%w: %w", models.ErrDirections, err)
		}
		return nil, nil, err
	}
	return models.ClonePlaces(path), resp.Legs, nil
}
