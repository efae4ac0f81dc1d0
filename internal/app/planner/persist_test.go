package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
)

// MockSaver is a mock implementation of Saver
type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) SavePlaces(ctx context.Context, places []models.Place) error {
	args := m.Called(ctx, places)
	return args.Error(0)
}

type blockingSaver struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
}

func (s *blockingSaver) SavePlaces(ctx context.Context, _ []models.Place) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *blockingSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func waitPersisted(t *testing.T, p *BackgroundPersister) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func TestBackgroundPersister(t *testing.T) {
	places := []models.Place{eiffel}

	t.Run("saves once on success", func(t *testing.T) {
		saver := new(MockSaver)
		saver.On("SavePlaces", mock.Anything, places).Return(nil).Once()

		p := NewBackgroundPersister(saver, 3, 0, zap.NewNop())
		p.Persist(context.Background(), places)
		waitPersisted(t, p)

		saver.AssertNumberOfCalls(t, "SavePlaces", 1)
	})

	t.Run("retries until success", func(t *testing.T) {
		saver := new(MockSaver)
		saver.On("SavePlaces", mock.Anything, places).Return(errors.New("503")).Twice()
		saver.On("SavePlaces", mock.Anything, places).Return(nil).Once()

		p := NewBackgroundPersister(saver, 3, time.Millisecond, zap.NewNop())
		p.Persist(context.Background(), places)
		waitPersisted(t, p)

		saver.AssertNumberOfCalls(t, "SavePlaces", 3)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		saver := new(MockSaver)
		saver.On("SavePlaces", mock.Anything, places).Return(models.ErrBackend)

		p := NewBackgroundPersister(saver, 2, 0, zap.NewNop())
		p.Persist(context.Background(), places)
		waitPersisted(t, p)

		saver.AssertNumberOfCalls(t, "SavePlaces", 2)
	})

	t.Run("outlives a cancelled request context", func(t *testing.T) {
		saver := new(MockSaver)
		saver.On("SavePlaces", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), places).Return(nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		p := NewBackgroundPersister(saver, 1, 0, zap.NewNop())
		p.Persist(ctx, places)
		cancel()
		waitPersisted(t, p)

		saver.AssertExpectations(t)
	})

	t.Run("wait honours its context", func(t *testing.T) {
		saver := &blockingSaver{release: make(chan struct{})}
		p := NewBackgroundPersister(saver, 1, 0, zap.NewNop())
		p.Persist(context.Background(), places)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)

		close(saver.release)
		waitPersisted(t, p)
	})
}
