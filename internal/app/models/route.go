package models

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm names a backend route endpoint.
type Algorithm string

const (
	AlgorithmDijkstra Algorithm = "dijkstra"
	AlgorithmAStar    Algorithm = "astar"
)

// ParseAlgorithm maps user input onto a supported algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dijkstra":
		return AlgorithmDijkstra, nil
	case "astar", "a*", "a-star":
		return AlgorithmAStar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// RouteType records which algorithm produced the displayed route.
type RouteType string

const (
	RouteNotCalculated RouteType = "not_calculated"
	RouteDijkstra      RouteType = "dijkstra"
	RouteAStar         RouteType = "astar"
)

// RouteTypeFor returns the route type produced by an algorithm.
func RouteTypeFor(a Algorithm) RouteType {
	switch a {
	case AlgorithmDijkstra:
		return RouteDijkstra
	case AlgorithmAStar:
		return RouteAStar
	}
	return RouteNotCalculated
}

// RouteInfo holds the display-only aggregates of the rendered route.
type RouteInfo struct {
	Type          RouteType     `json:"type"`
	TotalTime     time.Duration `json:"total_time"`
	TotalDistance float64       `json:"total_distance_m"`
}

// NotCalculated is the route info before any successful route call.
func NotCalculated() RouteInfo {
	return RouteInfo{Type: RouteNotCalculated}
}

// DistanceText formats the total distance the way the map panel shows it.
func (r RouteInfo) DistanceText() string {
	return fmt.Sprintf("%.2f km", r.TotalDistance/1000)
}

// TimeText formats the total time rounded to minutes.
func (r RouteInfo) TimeText() string {
	return r.TotalTime.Round(time.Minute).String()
}

// Leg is one origin-to-next-stop segment returned by the directions service.
type Leg struct {
	From     PlaceRef      `json:"from"`
	To       PlaceRef      `json:"to"`
	Distance float64       `json:"distance_m"`
	Duration time.Duration `json:"duration"`
}

// SumLegs aggregates leg distances and durations into route totals.
func SumLegs(t RouteType, legs []Leg) RouteInfo {
	info := RouteInfo{Type: t}
	for _, l := range legs {
		info.TotalDistance += l.Distance
		info.TotalTime += l.Duration
	}
	return info
}
