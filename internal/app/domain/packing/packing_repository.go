package packing

import (
	"context"
	"errors"
	"fmt"

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

// Repository persists per-trip packing checklists.
type Repository interface {
	Insert(ctx context.Context, tripID uuid.UUID, in models.CreatePackingItemInput) (*models.PackingItem, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.PackingItem, error)
	TogglePacked(ctx context.Context, tripID, itemID uuid.UUID) (*models.PackingItem, error)
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
	Progress(ctx context.Context, tripID uuid.UUID) (total, packed int, err error)
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

const packingColumns = `id, trip_id, name, category, quantity, packed, created_at, updated_at`

func scanPackingItem(row pgx.Row, it *models.PackingItem) error {
	return row.Scan(&it.ID, &it.TripID, &it.Name, &it.Category, &it.Quantity, &it.Packed, &it.CreatedAt, &it.UpdatedAt)
}

func (r *RepositoryImpl) Insert(ctx context.Context, tripID uuid.UUID, in models.CreatePackingItemInput) (*models.PackingItem, error) {
	ctx, span := otel.Tracer("PackingRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "packing_items"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var item models.PackingItem
	query := `
        INSERT INTO packing_items (trip_id, name, category, quantity, created_at, updated_at)
        VALUES ($1, $2, $3, $4, Now(), Now())
        RETURNING ` + packingColumns

	err := scanPackingItem(r.pgpool.QueryRow(ctx, query, tripID, in.Name, in.Category, quantity), &item)
	if err != nil {
		r.logger.Error("Failed to insert packing item", zap.Error(err), zap.String("tripID", tripID.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error adding packing item: %w", err)
	}

	span.SetStatus(codes.Ok, "Packing item added")
	return &item, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.PackingItem, error) {
	ctx, span := otel.Tracer("PackingRepo").Start(ctx, "ListForTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "packing_items"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	query := `SELECT ` + packingColumns + ` FROM packing_items WHERE trip_id = $1 ORDER BY created_at`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing packing items: %w", err)
	}
	defer rows.Close()

	var items []*models.PackingItem
	for rows.Next() {
		var item models.PackingItem
		if err := scanPackingItem(rows, &item); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning packing item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating packing items: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(items)))
	span.SetStatus(codes.Ok, "Packing items listed")
	return items, nil
}

func (r *RepositoryImpl) TogglePacked(ctx context.Context, tripID, itemID uuid.UUID) (*models.PackingItem, error) {
	ctx, span := otel.Tracer("PackingRepo").Start(ctx, "TogglePacked", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "packing_items"),
	))
	defer span.End()

	var item models.PackingItem
	query := `
        UPDATE packing_items
        SET packed = NOT packed, updated_at = Now()
        WHERE id = $1 AND trip_id = $2
        RETURNING ` + packingColumns

	err := scanPackingItem(r.pgpool.QueryRow(ctx, query, itemID, tripID), &item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Packing item not found")
			return nil, fmt.Errorf("packing item %s not found: %w", itemID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, fmt.Errorf("database error toggling packing item: %w", err)
	}

	span.SetStatus(codes.Ok, "Packing item toggled")
	return &item, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("PackingRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "packing_items"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM packing_items WHERE id = $1 AND trip_id = $2`, itemID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting packing item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Packing item not found")
		return fmt.Errorf("packing item %s not found: %w", itemID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Packing item deleted")
	return nil
}

func (r *RepositoryImpl) Progress(ctx context.Context, tripID uuid.UUID) (int, int, error) {
	ctx, span := otel.Tracer("PackingRepo").Start(ctx, "Progress", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "packing_items"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	var total, packed int
	query := `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE packed)
        FROM packing_items
        WHERE trip_id = $1`

	if err := r.pgpool.QueryRow(ctx, query, tripID).Scan(&total, &packed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return 0, 0, fmt.Errorf("database error computing packing progress: %w", err)
	}

	span.SetStatus(codes.Ok, "Progress computed")
	return total, packed, nil
}
