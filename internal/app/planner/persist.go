package planner

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/observability/metrics"
)

// Saver stores an itinerary somewhere durable.
type Saver interface {
	SavePlaces(ctx context.Context, places []models.Place) error
}

// BackgroundPersister saves itineraries off the request path with a
// bounded number of attempts. Failures are logged and counted, never
// returned to the caller.
type BackgroundPersister struct {
	saver    Saver
	attempts int
	delay    time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

var _ Persister = (*BackgroundPersister)(nil)

func NewBackgroundPersister(saver Saver, attempts int, delay time.Duration, logger *zap.Logger) *BackgroundPersister {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackgroundPersister{
		saver:    saver,
		attempts: attempts,
		delay:    delay,
		logger:   logger,
	}
}

// Persist starts saving places and returns immediately. The save outlives
// the caller's context cancellation but keeps its values (trace span).
func (p *BackgroundPersister) Persist(ctx context.Context, places []models.Place) {
	asyncCtx := context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.save(asyncCtx, places)
	}()
}

func (p *BackgroundPersister) save(ctx context.Context, places []models.Place) {
	l := p.logger.With(zap.String("method", "Persist"), zap.Int("places", len(places)))
	m := metrics.Get()

	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err = p.saver.SavePlaces(ctx, places); err == nil {
			l.Info("Itinerary saved", zap.Int("attempt", attempt))
			m.ItinerarySavesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
			return
		}

		l.Warn("Itinerary save failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.attempts),
			zap.Error(err))
		if attempt < p.attempts {
			time.Sleep(time.Duration(attempt) * p.delay)
		}
	}

	l.Error("Giving up on itinerary save", zap.Error(err))
	m.ItinerarySavesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
}

// Wait blocks until every started save has finished or ctx is done.
func (p *BackgroundPersister) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
