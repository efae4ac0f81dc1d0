package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/planner"
)

func TestStore(t *testing.T) {
	var created []string
	store := NewStore(time.Minute, func(id string) *planner.Coordinator {
		created = append(created, id)
		return planner.New(planner.Options{})
	}, zap.NewNop())

	id, coord := store.Create(context.Background())
	require.NotNil(t, coord)
	assert.Equal(t, []string{id}, created)

	other, _ := store.Create(context.Background())
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, store.Len())

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Same(t, coord, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, store.Delete(id))
	assert.ErrorIs(t, store.Delete(id), models.ErrNotFound)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(20*time.Millisecond, func(string) *planner.Coordinator {
		return planner.New(planner.Options{})
	}, zap.NewNop())

	id, _ := store.Create(context.Background())
	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Minute, func(string) *planner.Coordinator {
		return planner.New(planner.Options{})
	}, zap.NewNop())

	_, a := store.Create(context.Background())
	_, b := store.Create(context.Background())

	a.Add(models.Place{Name: "Colosseum", Lat: 41.8902, Lon: 12.4922})
	assert.Len(t, a.Snapshot().Itinerary, 1)
	assert.Empty(t, b.Snapshot().Itinerary)
}
