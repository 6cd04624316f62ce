package trips

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	database "github.com/ngandinhtk/tripwise/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists trips and their itinerary items. Every query is scoped
// by the owning user so one user can never read or mutate another's trips.
type Repository interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, in models.CreateTripInput, days int) (*models.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params models.UpdateTripParams, days *int) (*models.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error

	AddItineraryItem(ctx context.Context, tripID uuid.UUID, in models.CreateItineraryItemInput) (*models.ItineraryItem, error)
	ListItineraryItems(ctx context.Context, tripID uuid.UUID) ([]*models.ItineraryItem, error)
	UpdateItineraryItem(ctx context.Context, tripID, itemID uuid.UUID, params models.UpdateItineraryItemParams) (*models.ItineraryItem, error)
	DeleteItineraryItem(ctx context.Context, tripID, itemID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool database.Querier
}

func NewRepositoryImpl(pgpool database.Querier, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const tripColumns = `id, user_id, name, destination, country_code, start_date, end_date, days, budget, currency, notes, created_at, updated_at`

func scanTrip(row pgx.Row, t *models.Trip) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.Name, &t.Destination, &t.CountryCode, &t.StartDate, &t.EndDate,
		&t.Days, &t.Budget, &t.Currency, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *RepositoryImpl) CreateTrip(ctx context.Context, userID uuid.UUID, in models.CreateTripInput, days int) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "CreateTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "CreateTrip"), zap.String("userID", userID.String()))

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	var trip models.Trip
	query := `
        INSERT INTO trips (user_id, name, destination, country_code, start_date, end_date, days, budget, currency, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, Now(), Now())
        RETURNING ` + tripColumns

	err := scanTrip(r.pgpool.QueryRow(ctx, query,
		userID, in.Name, in.Destination, in.CountryCode, in.StartDate, in.EndDate, days, in.Budget, currency, in.Notes,
	), &trip)
	if err != nil {
		l.Error("Failed to insert trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating trip: %w", err)
	}

	l.Info("Trip created", zap.String("tripID", trip.ID.String()))
	span.SetAttributes(attribute.String("db.trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return &trip, nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "GetTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	var trip models.Trip
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2`

	err := scanTrip(r.pgpool.QueryRow(ctx, query, tripID, userID), &trip)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s not found: %w", tripID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching trip: %w", err)
	}

	span.SetStatus(codes.Ok, "Trip fetched")
	return &trip, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "ListTrips", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	query := `SELECT ` + tripColumns + ` FROM trips WHERE user_id = $1 ORDER BY start_date DESC`

	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		var trip models.Trip
		if err := scanTrip(rows, &trip); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning trip: %w", err)
		}
		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating trips: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

func (r *RepositoryImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params models.UpdateTripParams, days *int) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "UpdateTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "UpdateTrip"), zap.String("tripID", tripID.String()))

	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if params.Name != nil {
		appendSet("name", params.Name)
	}
	if params.Destination != nil {
		appendSet("destination", params.Destination)
	}
	if params.CountryCode != nil {
		appendSet("country_code", params.CountryCode)
	}
	if params.StartDate != nil {
		appendSet("start_date", params.StartDate)
	}
	if params.EndDate != nil {
		appendSet("end_date", params.EndDate)
	}
	if days != nil {
		appendSet("days", *days)
	}
	if params.Budget != nil {
		appendSet("budget", params.Budget)
	}
	if params.Currency != nil {
		appendSet("currency", params.Currency)
	}
	if params.Notes != nil {
		appendSet("notes", params.Notes)
	}

	if len(setClauses) == 0 {
		span.SetStatus(codes.Ok, "No update fields")
		return r.GetTrip(ctx, userID, tripID)
	}

	appendSet("updated_at", time.Now())

	args = append(args, tripID, userID)
	query := fmt.Sprintf(`UPDATE trips SET %s WHERE id = $%d AND user_id = $%d RETURNING `+tripColumns,
		strings.Join(setClauses, ", "), argID, argID+1)

	var trip models.Trip
	err := scanTrip(r.pgpool.QueryRow(ctx, query, args...), &trip)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Trip not found")
			return nil, fmt.Errorf("trip %s not found: %w", tripID, models.ErrNotFound)
		}
		l.Error("Failed to update trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating trip: %w", err)
	}

	l.Info("Trip updated")
	span.SetStatus(codes.Ok, "Trip updated")
	return &trip, nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "DeleteTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "trips"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Trip not found")
		return fmt.Errorf("trip %s not found: %w", tripID, models.ErrNotFound)
	}

	r.logger.Info("Trip deleted", zap.String("tripID", tripID.String()))
	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

const itineraryColumns = `id, trip_id, day_index, position, title, start_time, duration_min, place_id, notes, created_at, updated_at`

func scanItineraryItem(row pgx.Row, it *models.ItineraryItem) error {
	return row.Scan(
		&it.ID, &it.TripID, &it.DayIndex, &it.Position, &it.Title, &it.StartTime,
		&it.Duration, &it.PlaceID, &it.Notes, &it.CreatedAt, &it.UpdatedAt,
	)
}

func (r *RepositoryImpl) AddItineraryItem(ctx context.Context, tripID uuid.UUID, in models.CreateItineraryItemInput) (*models.ItineraryItem, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "AddItineraryItem", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "itinerary_items"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	// Appended items take the next position within their day.
	var item models.ItineraryItem
	query := `
        INSERT INTO itinerary_items (trip_id, day_index, position, title, start_time, duration_min, place_id, notes, created_at, updated_at)
        SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3, $4, $5, $6, $7, Now(), Now()
        FROM itinerary_items WHERE trip_id = $1 AND day_index = $2
        RETURNING ` + itineraryColumns

	err := scanItineraryItem(r.pgpool.QueryRow(ctx, query,
		tripID, in.DayIndex, in.Title, in.StartTime, in.Duration, in.PlaceID, in.Notes,
	), &item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error adding itinerary item: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary item added")
	return &item, nil
}

func (r *RepositoryImpl) ListItineraryItems(ctx context.Context, tripID uuid.UUID) ([]*models.ItineraryItem, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "ListItineraryItems", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "itinerary_items"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	query := `SELECT ` + itineraryColumns + ` FROM itinerary_items WHERE trip_id = $1 ORDER BY day_index, position`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing itinerary items: %w", err)
	}
	defer rows.Close()

	var items []*models.ItineraryItem
	for rows.Next() {
		var item models.ItineraryItem
		if err := scanItineraryItem(rows, &item); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning itinerary item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating itinerary items: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(items)))
	span.SetStatus(codes.Ok, "Itinerary items listed")
	return items, nil
}

func (r *RepositoryImpl) UpdateItineraryItem(ctx context.Context, tripID, itemID uuid.UUID, params models.UpdateItineraryItemParams) (*models.ItineraryItem, error) {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "UpdateItineraryItem", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "itinerary_items"),
	))
	defer span.End()

	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	appendSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if params.DayIndex != nil {
		appendSet("day_index", params.DayIndex)
	}
	if params.Position != nil {
		appendSet("position", params.Position)
	}
	if params.Title != nil {
		appendSet("title", params.Title)
	}
	if params.StartTime != nil {
		appendSet("start_time", params.StartTime)
	}
	if params.Duration != nil {
		appendSet("duration_min", params.Duration)
	}
	if params.Notes != nil {
		appendSet("notes", params.Notes)
	}

	if len(setClauses) == 0 {
		span.SetStatus(codes.Error, "No update fields")
		return nil, fmt.Errorf("no fields to update: %w", models.ErrBadRequest)
	}

	appendSet("updated_at", time.Now())

	args = append(args, itemID, tripID)
	query := fmt.Sprintf(`UPDATE itinerary_items SET %s WHERE id = $%d AND trip_id = $%d RETURNING `+itineraryColumns,
		strings.Join(setClauses, ", "), argID, argID+1)

	var item models.ItineraryItem
	err := scanItineraryItem(r.pgpool.QueryRow(ctx, query, args...), &item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Item not found")
			return nil, fmt.Errorf("itinerary item %s not found: %w", itemID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error updating itinerary item: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary item updated")
	return &item, nil
}

func (r *RepositoryImpl) DeleteItineraryItem(ctx context.Context, tripID, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "DeleteItineraryItem", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "itinerary_items"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM itinerary_items WHERE id = $1 AND trip_id = $2`, itemID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting itinerary item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Item not found")
		return fmt.Errorf("itinerary item %s not found: %w", itemID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Itinerary item deleted")
	return nil
}
