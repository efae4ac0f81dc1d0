package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

const googleDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"

type googleValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type googleLeg struct {
	Distance     googleValue `json:"distance"`
	Duration     googleValue `json:"duration"`
	StartAddress string      `json:"start_address"`
	EndAddress   string      `json:"end_address"`
}

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Routes       []struct {
		Legs []googleLeg `json:"legs"`
	} `json:"routes"`
}

// GoogleService calls the Google Directions JSON API.
type GoogleService struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Service = (*GoogleService)(nil)

func NewGoogleService(apiKey string, timeout time.Duration, logger *zap.Logger) *GoogleService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleService{
		apiKey:   apiKey,
		endpoint: googleDirectionsURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

func latLon(p models.PlaceRef) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

func (s *GoogleService) Route(ctx context.Context, req Request) (*Response, error) {
	ctx, span := otel.Tracer("DirectionsService").Start(ctx, "GoogleRoute")
	defer span.End()
	span.SetAttributes(attribute.Int("waypoints.count", len(req.Waypoints)))

	mode := req.Mode
	if mode == "" {
		mode = "driving"
	}
	q := url.Values{}
	q.Set("origin", latLon(req.Origin))
	q.Set("destination", latLon(req.Destination))
	q.Set("mode", mode)
	q.Set("key", s.apiKey)
	if len(req.Waypoints) > 0 {
		wps := make([]string, 0, len(req.Waypoints))
		for _, w := range req.Waypoints {
			wps = append(wps, latLon(w))
		}
		q.Set("waypoints", strings.Join(wps, "|"))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrDirections, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directions request failed")
		return nil, fmt.Errorf("%w: %w", models.ErrDirections, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: directions returned status %d", models.ErrDirections, resp.StatusCode)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var gResp googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return nil, fmt.Errorf("%w: decode directions response: %w", models.ErrDirections, err)
	}
	if gResp.Status != "OK" || len(gResp.Routes) == 0 {
		err := fmt.Errorf("%w: directions status %s %s", models.ErrDirections, gResp.Status, gResp.ErrorMessage)
		span.SetStatus(codes.Error, gResp.Status)
		s.logger.Warn("Directions API returned no route",
			zap.String("status", gResp.Status),
			zap.String("error_message", gResp.ErrorMessage))
		return nil, err
	}

	stops := req.Stops()
	gLegs := gResp.Routes[0].Legs
	legs := make([]models.Leg, 0, len(gLegs))
	for i, gl := range gLegs {
		leg := models.Leg{
			Distance: gl.Distance.Value,
			Duration: time.Duration(gl.Duration.Value) * time.Second,
		}
		if i+1 < len(stops) {
			leg.From, leg.To = stops[i], stops[i+1]
		}
		legs = append(legs, leg)
	}

	span.SetAttributes(attribute.Int("legs.count", len(legs)))
	span.SetStatus(codes.Ok, "")
	return &Response{Legs: legs}, nil
}
