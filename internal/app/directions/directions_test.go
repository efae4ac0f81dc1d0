package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

var (
	eiffel = models.Place{Name: "Eiffel Tower", Lat: 48.8584, Lon: 2.2945}
	louvre = models.Place{Name: "Louvre", Lat: 48.8606, Lon: 2.3376}
	orsay  = models.Place{Name: "Orsay", Lat: 48.8600, Lon: 2.3266}
)

func TestRequestFor(t *testing.T) {
	t.Run("empty path is rejected", func(t *testing.T) {
		_, err := RequestFor(nil, "driving")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("single place routes to itself", func(t *testing.T) {
		req, err := RequestFor([]models.Place{eiffel}, "walking")
		require.NoError(t, err)
		assert.Equal(t, eiffel.Ref(), req.Origin)
		assert.Equal(t, eiffel.Ref(), req.Destination)
		assert.Empty(t, req.Waypoints)
	})

	t.Run("middle places become waypoints", func(t *testing.T) {
		req, err := RequestFor([]models.Place{eiffel, orsay, louvre}, "driving")
		require.NoError(t, err)
		assert.Equal(t, []models.PlaceRef{orsay.Ref()}, req.Waypoints)
		assert.Equal(t, []models.PlaceRef{eiffel.Ref(), orsay.Ref(), louvre.Ref()}, req.Stops())
	})
}

func TestHaversineService(t *testing.T) {
	svc := NewHaversineService(36) // 10 m/s

	t.Run("one leg per hop", func(t *testing.T) {
		req, err := RequestFor([]models.Place{eiffel, orsay, louvre}, "")
		require.NoError(t, err)

		resp, err := svc.Route(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, resp.Legs, 2)
		assert.Equal(t, eiffel.Ref(), resp.Legs[0].From)
		assert.Equal(t, louvre.Ref(), resp.Legs[1].To)

		info := models.SumLegs(models.RouteAStar, resp.Legs)
		assert.Greater(t, info.TotalDistance, 3000.0)
		assert.InDelta(t, info.TotalDistance/10, info.TotalTime.Seconds(), 1)
	})

	t.Run("single place has no legs", func(t *testing.T) {
		req, err := RequestFor([]models.Place{eiffel}, "")
		require.NoError(t, err)

		resp, err := svc.Route(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, resp.Legs)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Route(ctx, Request{Origin: eiffel.Ref(), Destination: louvre.Ref()})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func newGoogleTestService(t *testing.T, h http.HandlerFunc) *GoogleService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	svc := NewGoogleService("test-key", time.Second, zap.NewNop())
	svc.endpoint = srv.URL
	return svc
}

func TestGoogleService(t *testing.T) {
	t.Run("maps legs onto stops", func(t *testing.T) {
		svc := newGoogleTestService(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "48.8584,2.2945", q.Get("origin"))
			assert.Equal(t, "48.8606,2.3376", q.Get("destination"))
			assert.Equal(t, "48.86,2.3266", q.Get("waypoints"))
			assert.Equal(t, "driving", q.Get("mode"))
			assert.Equal(t, "test-key", q.Get("key"))
			_, _ = w.Write([]byte(`{"status":"OK","routes":[{"legs":[
				{"distance":{"value":2500,"text":"2.5 km"},"duration":{"value":600,"text":"10 mins"}},
				{"distance":{"value":1000,"text":"1 km"},"duration":{"value":300,"text":"5 mins"}}]}]}`))
		})

		req, err := RequestFor([]models.Place{eiffel, orsay, louvre}, "")
		require.NoError(t, err)
		resp, err := svc.Route(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, resp.Legs, 2)
		assert.Equal(t, orsay.Ref(), resp.Legs[0].To)

		info := models.SumLegs(models.RouteDijkstra, resp.Legs)
		assert.Equal(t, 3500.0, info.TotalDistance)
		assert.Equal(t, 15*time.Minute, info.TotalTime)
		assert.Equal(t, "3.50 km", info.DistanceText())
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		svc := newGoogleTestService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","routes":[]}`))
		})

		_, err := svc.Route(context.Background(), Request{Origin: eiffel.Ref(), Destination: louvre.Ref()})
		assert.ErrorIs(t, err, models.ErrDirections)
		assert.True(t, strings.Contains(err.Error(), "ZERO_RESULTS"))
	})

	t.Run("http failure is an error", func(t *testing.T) {
		svc := newGoogleTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		_, err := svc.Route(context.Background(), Request{Origin: eiffel.Ref(), Destination: louvre.Ref()})
		assert.ErrorIs(t, err, models.ErrDirections)
	})
}

func TestNewService(t *testing.T) {
	_, ok := NewService(Options{AverageSpeedKmh: 30}, nil).(*HaversineService)
	assert.True(t, ok)

	_, ok = NewService(Options{GoogleAPIKey: "k", AverageSpeedKmh: 30}, zap.NewNop()).(*GoogleService)
	assert.True(t, ok)
}
