package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/middleware"
	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/planner"
)

const table = "saved_itineraries"

var (
	_ Repository    = (*RepositoryImpl)(nil)
	_ planner.Saver = (*RepositoryImpl)(nil)
)

// SavedItinerary is one itinerary persisted at navigation time.
type SavedItinerary struct {
	ID        uuid.UUID         `json:"id"`
	SessionID string            `json:"session_id"`
	Places    []models.PlaceRef `json:"places"`
	CreatedAt time.Time         `json:"created_at"`
}

// DB is the part of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository interface {
	SavePlaces(ctx context.Context, places []models.Place) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]SavedItinerary, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	db     DB
	psql   sq.StatementBuilderType
	now    func() time.Time
}

func NewRepositoryImpl(db DB, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:    time.Now,
	}
}

// SavePlaces inserts one row holding the {name, lat, lon} projection of
// places. The session id is taken from ctx.
func (r *RepositoryImpl) SavePlaces(ctx context.Context, places []models.Place) error {
	sessionID := middleware.SessionIDFromContext(ctx)
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "SavePlaces", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", table),
		attribute.String("session.id", sessionID),
		attribute.Int("places.count", len(places)),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "SavePlaces"), zap.String("session_id", sessionID))

	payload, err := json.Marshal(models.Refs(places))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to encode places: %w", err)
	}

	id := uuid.New()
	query, args, err := r.psql.
		Insert(table).
		Columns("id", "session_id", "places", "place_count", "created_at").
		Values(id, sessionID, payload, len(places), r.now().UTC()).
		ToSql()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to build insert: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		l.Error("Failed to insert saved itinerary", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error saving itinerary: %w", err)
	}
	if tag.RowsAffected() != 1 {
		span.SetStatus(codes.Error, "unexpected rows affected")
		return fmt.Errorf("saving itinerary affected %d rows", tag.RowsAffected())
	}

	l.Debug("Saved itinerary", zap.String("itinerary_id", id.String()), zap.Int("places", len(places)))
	span.SetAttributes(attribute.String("db.itinerary.id", id.String()))
	span.SetStatus(codes.Ok, "Itinerary saved")
	return nil
}

// ListBySession returns the latest saved itineraries of a session, newest first.
func (r *RepositoryImpl) ListBySession(ctx context.Context, sessionID string, limit int) ([]SavedItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListBySession", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", table),
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	query, args, err := r.psql.
		Select("id", "session_id", "places", "created_at").
		From(table).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing itineraries: %w", err)
	}
	defer rows.Close()

	saved := []SavedItinerary{}
	for rows.Next() {
		var (
			s   SavedItinerary
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.SessionID, &raw, &s.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan saved itinerary: %w", err)
		}
		if err := json.Unmarshal(raw, &s.Places); err != nil {
			return nil, fmt.Errorf("saved itinerary %s has malformed places: %w", s.ID, err)
		}
		saved = append(saved, s)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating saved itineraries: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(saved)))
	return saved, nil
}
