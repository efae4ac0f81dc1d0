package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zap.NewNop())
}

func TestClient_FetchPlaces(t *testing.T) {
	t.Run("returns places verbatim", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/places", r.URL.Path)
			assert.Equal(t, "São Paulo", r.URL.Query().Get("city"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"places":[{"name":"MASP","lat":-23.56,"lon":-46.65,"image":"https://img/masp.jpg"},{"name":"Ibirapuera","lat":-23.58,"lon":-46.65}]}`))
		})

		places, err := c.FetchPlaces(context.Background(), "São Paulo")
		require.NoError(t, err)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, []models.Place{
			{Name: "MASP", Lat: -23.56, Lon: -46.65, Image: "https://img/masp.jpg"},
			{Name: "Ibirapuera", Lat: -23.58, Lon: -46.65},
		}, places)
	})

	t.Run("unknown city maps to not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"City not found"}`))
		})

		_, err := c.FetchPlaces(context.Background(), "Atlantis")
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrNotFound)

		var bErr *Error
		require.ErrorAs(t, err, &bErr)
		assert.Equal(t, "City not found", bErr.Message)
	})

	t.Run("malformed body is a backend error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"places":`))
		})

		_, err := c.FetchPlaces(context.Background(), "Paris")
		assert.ErrorIs(t, err, models.ErrBackend)
	})

	t.Run("missing places key yields empty list", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		places, err := c.FetchPlaces(context.Background(), "Paris")
		require.NoError(t, err)
		assert.NotNil(t, places)
		assert.Empty(t, places)
	})

	t.Run("cancelled context aborts the request", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.FetchPlaces(ctx, "Paris")
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, models.ErrBackend)
	})
}

func TestClient_SavePlaces(t *testing.T) {
	t.Run("posts the name/lat/lon projection", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/save_places", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body []map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body, 1)
			assert.Equal(t, map[string]any{"name": "Louvre", "lat": 48.86, "lon": 2.33}, body[0])
			_, _ = w.Write([]byte(`{"message":"Places saved successfully!"}`))
		})

		err := c.SavePlaces(context.Background(), []models.Place{{Name: "Louvre", Lat: 48.86, Lon: 2.33, Image: "x"}})
		assert.NoError(t, err)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "disk full", http.StatusInternalServerError)
		})

		err := c.SavePlaces(context.Background(), []models.Place{{Name: "Louvre"}})
		assert.ErrorIs(t, err, models.ErrBackend)
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestClient_Route(t *testing.T) {
	trip := []models.Place{{Name: "A", Lat: 1, Lon: 1}, {Name: "B", Lat: 2, Lon: 2}}

	t.Run("dijkstra reads route", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/dijkstra", r.URL.Path)
			_, _ = w.Write([]byte(`{"route":[{"name":"B","lat":2,"lon":2},{"name":"A","lat":1,"lon":1}]}`))
		})

		route, err := c.Route(context.Background(), models.AlgorithmDijkstra, trip)
		require.NoError(t, err)
		assert.Equal(t, []models.Place{{Name: "B", Lat: 2, Lon: 2}, {Name: "A", Lat: 1, Lon: 1}}, route)
	})

	t.Run("astar reads full_route", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/astar", r.URL.Path)
			_, _ = w.Write([]byte(`{"optimized_route":[{"name":"A","lat":1,"lon":1}],"total_distance":"1.20 km","full_route":[{"name":"A","lat":1,"lon":1},{"name":"B","lat":2,"lon":2}]}`))
		})

		route, err := c.Route(context.Background(), models.AlgorithmAStar, trip)
		require.NoError(t, err)
		assert.Len(t, route, 2)
	})

	t.Run("astar falls back to optimized_route", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"optimized_route":[{"name":"A","lat":1,"lon":1}]}`))
		})

		route, err := c.Route(context.Background(), models.AlgorithmAStar, trip)
		require.NoError(t, err)
		assert.Equal(t, []models.Place{{Name: "A", Lat: 1, Lon: 1}}, route)
	})

	t.Run("empty route is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"route":[]}`))
		})

		_, err := c.Route(context.Background(), models.AlgorithmDijkstra, trip)
		assert.ErrorIs(t, err, models.ErrBackend)
	})

	t.Run("unknown algorithm never hits the network", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("unexpected request")
		})

		_, err := c.Route(context.Background(), models.Algorithm("bfs"), trip)
		assert.ErrorIs(t, err, models.ErrUnknownAlgorithm)
	})
}
