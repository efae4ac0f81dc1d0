// Package backend is the HTTP client for the places, persistence and route
// endpoints of the travel backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/observability/metrics"
)

const (
	placesPath = "/places"
	savePath   = "/save_places"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// Error is returned for non-2xx backend responses.
type Error struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend %s returned status %d", e.Endpoint, e.StatusCode)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	return models.ErrBackend
}

type placesResponse struct {
	Places []models.Place `json:"places"`
	Error  string         `json:"error,omitempty"`
}

// routeResponse covers both route endpoints: /dijkstra answers with "route",
// /astar with "full_route" plus the optimized visiting order.
type routeResponse struct {
	Route          []models.Place `json:"route"`
	FullRoute      []models.Place `json:"full_route"`
	OptimizedRoute []models.Place `json:"optimized_route"`
	TotalDistance  string         `json:"total_distance,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the travel backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client. The transport is instrumented so
// outgoing requests carry the caller's trace context.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// FetchPlaces returns the famous places of a city, verbatim from the backend.
func (c *Client) FetchPlaces(ctx context.Context, city string) ([]models.Place, error) {
	ctx, span := otel.Tracer("BackendClient").Start(ctx, "FetchPlaces")
	defer span.End()
	span.SetAttributes(attribute.String("city", city))

	q := url.Values{}
	q.Set("city", city)

	var resp placesResponse
	if err := c.do(ctx, http.MethodGet, placesPath+"?"+q.Encode(), placesPath, nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch places failed")
		return nil, err
	}
	if resp.Places == nil {
		resp.Places = []models.Place{}
	}

	span.SetAttributes(attribute.Int("places.count", len(resp.Places)))
	span.SetStatus(codes.Ok, "")
	return resp.Places, nil
}

// SavePlaces persists the itinerary's {name, lat, lon} projection.
func (c *Client) SavePlaces(ctx context.Context, places []models.Place) error {
	ctx, span := otel.Tracer("BackendClient").Start(ctx, "SavePlaces")
	defer span.End()
	span.SetAttributes(attribute.Int("places.count", len(places)))

	if err := c.do(ctx, http.MethodPost, savePath, savePath, models.Refs(places), nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save places failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Route asks the backend to order the trip with the given algorithm and
// returns the ordered path.
func (c *Client) Route(ctx context.Context, algorithm models.Algorithm, places []models.Place) ([]models.Place, error) {
	ctx, span := otel.Tracer("BackendClient").Start(ctx, "Route")
	defer span.End()
	span.SetAttributes(
		attribute.String("algorithm", string(algorithm)),
		attribute.Int("places.count", len(places)),
	)

	var path string
	switch algorithm {
	case models.AlgorithmDijkstra, models.AlgorithmAStar:
		path = "/" + string(algorithm)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownAlgorithm, algorithm)
	}

	var resp routeResponse
	if err := c.do(ctx, http.MethodPost, path, path, places, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "route request failed")
		return nil, err
	}

	route := resp.pathFor(algorithm)
	if len(route) == 0 {
		err := fmt.Errorf("%w: %s returned an empty route", models.ErrBackend, path)
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty route")
		return nil, err
	}

	span.SetAttributes(attribute.Int("route.length", len(route)))
	span.SetStatus(codes.Ok, "")
	return route, nil
}

func (r routeResponse) pathFor(algorithm models.Algorithm) []models.Place {
	if algorithm == models.AlgorithmAStar {
		if len(r.FullRoute) > 0 {
			return r.FullRoute
		}
		return r.OptimizedRoute
	}
	return r.Route
}

// do performs one request. endpoint labels logs and metrics without the query string.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body, out any) error {
	l := c.logger.With(zap.String("method", method), zap.String("endpoint", endpoint))

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(ctx, endpoint, "transport_error", elapsed)
		l.Warn("Backend request failed", zap.Error(err))
		return fmt.Errorf("%w: %s: %w", models.ErrBackend, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(ctx, endpoint, "status_error", elapsed)
		bErr := &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		l.Warn("Backend returned error status", zap.Int("status", resp.StatusCode), zap.String("message", bErr.Message))
		return bErr
	}

	c.record(ctx, endpoint, "ok", elapsed)
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		l.Warn("Failed to decode backend response", zap.Error(err))
		return fmt.Errorf("%w: decode %s response: %w", models.ErrBackend, endpoint, err)
	}
	l.Debug("Backend request completed", zap.Duration("elapsed", elapsed))
	return nil
}

func (c *Client) record(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	metrics.Get().BackendRequestDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("outcome", outcome),
		))
}

func readErrorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(b) == 0 {
		return ""
	}
	var er errorResponse
	if json.Unmarshal(b, &er) == nil {
		if er.Error != "" {
			return er.Error
		}
		if er.Message != "" {
			return er.Message
		}
	}
	return string(bytes.TrimSpace(b))
}
