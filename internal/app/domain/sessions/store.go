package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/planner"
	"github.com/FACorreiaa/go-tripplanner/internal/observability/metrics"
)

const defaultCleanupInterval = 10 * time.Minute

// Factory builds the coordinator for a new session.
type Factory func(sessionID string) *planner.Coordinator

// Store keeps one coordinator per session in memory. Sessions expire after
// ttl without use.
type Store struct {
	cache   *cache.Cache
	factory Factory
	logger  *zap.Logger
}

func NewStore(ttl time.Duration, factory Factory, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cache.New(ttl, defaultCleanupInterval)
	c.OnEvicted(func(id string, _ interface{}) {
		metrics.Get().ActiveSessions.Add(context.Background(), -1)
		logger.Debug("Session evicted", zap.String("session_id", id))
	})
	return &Store{
		cache:   c,
		factory: factory,
		logger:  logger,
	}
}

// Create starts a new session and returns its id.
func (s *Store) Create(ctx context.Context) (string, *planner.Coordinator) {
	id := uuid.NewString()
	coord := s.factory(id)
	s.cache.SetDefault(id, coord)

	metrics.Get().ActiveSessions.Add(ctx, 1)
	s.logger.Info("Session created", zap.String("session_id", id))
	return id, coord
}

// Get returns the coordinator of a live session and extends its lifetime.
func (s *Store) Get(id string) (*planner.Coordinator, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	coord := v.(*planner.Coordinator)
	s.cache.SetDefault(id, coord)
	return coord, nil
}

// Delete drops a session. Deleting an unknown session reports ErrNotFound.
func (s *Store) Delete(id string) error {
	if _, found := s.cache.Get(id); !found {
		return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	s.cache.Delete(id)
	s.logger.Info("Session deleted", zap.String("session_id", id))
	return nil
}

func (s *Store) Len() int {
	return s.cache.ItemCount()
}
