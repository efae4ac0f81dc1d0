package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/backend"
	"github.com/FACorreiaa/go-tripplanner/internal/app/directions"
	"github.com/FACorreiaa/go-tripplanner/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-tripplanner/internal/app/domain/mapview"
	"github.com/FACorreiaa/go-tripplanner/internal/app/domain/sessions"
	"github.com/FACorreiaa/go-tripplanner/internal/app/planner"
	database "github.com/FACorreiaa/go-tripplanner/internal/db"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/config"
	"github.com/FACorreiaa/go-tripplanner/internal/routes"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	dbPool    *pgxpool.Pool
	persister *planner.BackgroundPersister
	sessions  *sessions.Store
	handlers  *routes.AppHandlers
	router    http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, logger.Named("backend"))
	dirs := directions.NewService(directions.Options{
		GoogleAPIKey:    cfg.Directions.GoogleAPIKey,
		AverageSpeedKmh: cfg.Directions.AverageSpeedKmh,
		Timeout:         cfg.Backend.RequestTimeout,
	}, logger.Named("directions"))

	s.handlers = &routes.AppHandlers{
		MapView: mapview.NewHandler(logger.Named("mapview")),
	}

	var saver planner.Saver
	switch cfg.Persistence.Mode {
	case config.SaveModeHTTP:
		saver = client
	case config.SaveModePostgres:
		pool, err := database.Setup(ctx, cfg, logger.Named("db"))
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		s.dbPool = pool
		repo := itinerary.NewRepositoryImpl(pool, logger.Named("itinerary"))
		saver = repo
		s.handlers.Itineraries = itinerary.NewHandler(repo, logger.Named("itinerary"))
	case config.SaveModeOff:
		logger.Info("Itinerary persistence disabled")
	}
	if saver != nil {
		s.persister = planner.NewBackgroundPersister(saver, cfg.Persistence.Retries, cfg.Persistence.RetryDelay, logger.Named("persist"))
	}

	coordLogger := logger.Named("planner")
	s.sessions = sessions.NewStore(cfg.SessionTTL, func(sessionID string) *planner.Coordinator {
		opts := planner.Options{
			Backend:    client,
			Directions: dirs,
			MapBaseURL: cfg.PublicURL,
			TravelMode: cfg.Directions.Mode,
			Logger:     coordLogger.With(zap.String("session_id", sessionID)),
		}
		if s.persister != nil {
			opts.Persister = s.persister
		}
		return planner.New(opts)
	}, logger.Named("sessions"))
	s.handlers.Sessions = sessions.NewHandler(s.sessions, logger.Named("sessions"))

	return s, nil
}

// Handlers returns the route handlers wired to this server's dependencies
func (s *Server) Handlers() *routes.AppHandlers {
	return s.handlers
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*s.cfg.Backend.RequestTimeout + 10*time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// GetDBPool returns the database connection pool, nil unless itineraries are saved to Postgres
func (s *Server) GetDBPool() *pgxpool.Pool {
	return s.dbPool
}

// Close waits for pending itinerary saves and releases the database
func (s *Server) Close(ctx context.Context) {
	if s.persister != nil {
		if err := s.persister.Wait(ctx); err != nil {
			s.logger.Warn("Pending itinerary saves abandoned", zap.Error(err))
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
