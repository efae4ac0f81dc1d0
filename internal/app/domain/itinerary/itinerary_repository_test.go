package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/middleware"
	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := NewRepositoryImpl(mockPool, zap.NewNop())
	repo.now = func() time.Time { return fixedNow }
	return repo, mockPool
}

func TestRepository_SavePlaces(t *testing.T) {
	places := []models.Place{
		{Name: "Eiffel Tower", Image: "https://img/eiffel.jpg", Lat: 48.8584, Lon: 2.2945},
		{Name: "Louvre", Lat: 48.8606, Lon: 2.3376},
	}
	payload, err := json.Marshal(models.Refs(places))
	require.NoError(t, err)

	t.Run("inserts one row per save", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec("INSERT INTO saved_itineraries").
			WithArgs(pgxmock.AnyArg(), "session-1", payload, 2, fixedNow).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		ctx := middleware.WithSessionID(context.Background(), "session-1")
		require.NoError(t, repo.SavePlaces(ctx, places))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("image is not stored", func(t *testing.T) {
		assert.NotContains(t, string(payload), "image")
	})

	t.Run("database error is returned", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectExec("INSERT INTO saved_itineraries").
			WithArgs(pgxmock.AnyArg(), "", payload, 2, fixedNow).
			WillReturnError(errors.New("connection reset"))

		err := repo.SavePlaces(context.Background(), places)
		assert.ErrorContains(t, err, "connection reset")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestRepository_ListBySession(t *testing.T) {
	id := uuid.New()
	raw := []byte(`[{"name":"Louvre","lat":48.8606,"lon":2.3376}]`)

	t.Run("returns rows newest first", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		rows := pgxmock.NewRows([]string{"id", "session_id", "places", "created_at"}).
			AddRow(id, "session-1", raw, fixedNow)
		mockPool.ExpectQuery("SELECT id, session_id, places, created_at FROM saved_itineraries WHERE session_id = \\$1 ORDER BY created_at DESC LIMIT 5").
			WithArgs("session-1").
			WillReturnRows(rows)

		saved, err := repo.ListBySession(context.Background(), "session-1", 5)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, id, saved[0].ID)
		assert.Equal(t, []models.PlaceRef{{Name: "Louvre", Lat: 48.8606, Lon: 2.3376}}, saved[0].Places)
		assert.True(t, fixedNow.Equal(saved[0].CreatedAt))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no rows gives an empty list", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery("SELECT (.+) FROM saved_itineraries").
			WithArgs("session-2").
			WillReturnRows(pgxmock.NewRows([]string{"id", "session_id", "places", "created_at"}))

		saved, err := repo.ListBySession(context.Background(), "session-2", 0)
		require.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Empty(t, saved)
	})
}

type stubRepo struct {
	saved []SavedItinerary
	err   error
}

func (s *stubRepo) SavePlaces(context.Context, []models.Place) error { return nil }

func (s *stubRepo) ListBySession(context.Context, string, int) ([]SavedItinerary, error) {
	return s.saved, s.err
}

func TestHandler_ListSaved(t *testing.T) {
	gin.SetMode(gin.TestMode)

	call := func(repo Repository, query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/sessions/s1/itineraries"+query, nil)
		c.Params = gin.Params{{Key: "id", Value: "s1"}}
		NewHandler(repo, zap.NewNop()).ListSaved(c)
		return w
	}

	w := call(&stubRepo{saved: []SavedItinerary{{ID: uuid.New(), SessionID: "s1"}}}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"session_id":"s1"`)

	w = call(&stubRepo{}, "?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(&stubRepo{err: errors.New("db down")}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
