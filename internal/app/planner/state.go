package planner

import "github.com/FACorreiaa/go-tripplanner/internal/app/models"

// Phase is the view the session is currently in.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseSearching      Phase = "searching"
	PhaseResultsShown   Phase = "results_shown"
	PhaseMapView        Phase = "map_view"
	PhaseRouteRequested Phase = "route_requested"
	PhaseRouteDisplayed Phase = "route_displayed"
)

// InMap reports whether the phase belongs to the map view.
func (p Phase) InMap() bool {
	return p == PhaseMapView || p == PhaseRouteRequested || p == PhaseRouteDisplayed
}

// pending reports whether the phase waits on a network response.
func (p Phase) pending() bool {
	return p == PhaseSearching || p == PhaseRouteRequested
}

// Snapshot is an immutable copy of a session's view state.
type Snapshot struct {
	Phase     Phase            `json:"phase"`
	City      string           `json:"city"`
	Results   []models.Place   `json:"results"`
	Itinerary []models.Place   `json:"itinerary"`
	PanelOpen bool             `json:"panel_open"`
	Trip      []models.Place   `json:"trip,omitempty"`
	MapURL    string           `json:"map_url,omitempty"`
	Path      []models.Place   `json:"path,omitempty"`
	Route     models.RouteInfo `json:"route"`
	LastError string           `json:"last_error,omitempty"`
}

// viewState is guarded by Coordinator.mu.
type viewState struct {
	phase Phase
	// returnPhase is restored when the in-flight request fails.
	returnPhase Phase
	city        string
	results     []models.Place
	itinerary   Itinerary
	panelOpen   bool

	// Map view. trip is frozen at navigation time; path and route change
	// only on a successful route request.
	trip   []models.Place
	mapURL string
	path   []models.Place
	route  models.RouteInfo

	lastError string
}

func newViewState() viewState {
	return viewState{
		phase:   PhaseIdle,
		results: []models.Place{},
		route:   models.NotCalculated(),
	}
}

// begin moves into a pending phase, remembering where to return on failure.
func (s *viewState) begin(p Phase) {
	if !s.phase.pending() {
		s.returnPhase = s.phase
	}
	s.phase = p
}

func (s *viewState) leaveMap() {
	s.trip = nil
	s.mapURL = ""
	s.path = nil
	s.route = models.NotCalculated()
}

func (s *viewState) snapshot() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		City:      s.city,
		Results:   models.ClonePlaces(s.results),
		Itinerary: s.itinerary.Places(),
		PanelOpen: s.panelOpen,
		Trip:      models.ClonePlaces(s.trip),
		MapURL:    s.mapURL,
		Path:      models.ClonePlaces(s.path),
		Route:     s.route,
		LastError: s.lastError,
	}
}
