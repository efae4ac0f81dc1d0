package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	SearchRequestsTotal    metric.Int64Counter
	RouteRequestsTotal     metric.Int64Counter
	StaleResponsesTotal    metric.Int64Counter
	ItinerarySavesTotal    metric.Int64Counter
	BackendRequestDuration metric.Float64Histogram
	ActiveSessions         metric.Int64UpDownCounter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it must
// run after the tracer package has installed the Prometheus exporter.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("trip-planner")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.SearchRequestsTotal, err = meter.Int64Counter(
			"planner_search_requests_total",
			metric.WithDescription("City searches submitted, by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planner_search_requests_total: %v", err)
		}

		m.RouteRequestsTotal, err = meter.Int64Counter(
			"planner_route_requests_total",
			metric.WithDescription("Route requests, by algorithm and outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planner_route_requests_total: %v", err)
		}

		m.StaleResponsesTotal, err = meter.Int64Counter(
			"planner_stale_responses_total",
			metric.WithDescription("Responses discarded because a newer request was issued"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planner_stale_responses_total: %v", err)
		}

		m.ItinerarySavesTotal, err = meter.Int64Counter(
			"planner_itinerary_saves_total",
			metric.WithDescription("Background itinerary saves, by outcome"),
			metric.WithUnit("{save}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planner_itinerary_saves_total: %v", err)
		}

		m.BackendRequestDuration, err = meter.Float64Histogram(
			"planner_backend_request_duration_seconds",
			metric.WithDescription("Duration of calls to the places/route backend"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planner_backend_request_duration_seconds: %v", err)
		}

		m.ActiveSessions, err = meter.Int64UpDownCounter(
			"planner_active_sessions",
			metric.WithDescription("Planner sessions currently held in memory"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create planner_active_sessions: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it against whatever
// MeterProvider is installed (a no-op one in tests).
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
