package templates

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

// Repository serves the curated template catalogue. The itinerary skeleton is
// stored as a JSONB array and decoded by pgx into []TemplateActivity.
type Repository interface {
	List(ctx context.Context) ([]*models.TripTemplate, error)
	GetByID(ctx context.Context, templateID uuid.UUID) (*models.TripTemplate, error)
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

const templateColumns = `id, name, destination, country_code, days, description, itinerary, created_at`

func scanTemplate(row pgx.Row, t *models.TripTemplate) error {
	return row.Scan(&t.ID, &t.Name, &t.Destination, &t.CountryCode, &t.Days, &t.Description, &t.Itinerary, &t.CreatedAt)
}

func (r *RepositoryImpl) List(ctx context.Context) ([]*models.TripTemplate, error) {
	ctx, span := otel.Tracer("TemplateRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_templates"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `SELECT `+templateColumns+` FROM trip_templates ORDER BY name`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing templates: %w", err)
	}
	defer rows.Close()

	var result []*models.TripTemplate
	for rows.Next() {
		var tpl models.TripTemplate
		if err := scanTemplate(rows, &tpl); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning template: %w", err)
		}
		result = append(result, &tpl)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating templates: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(result)))
	span.SetStatus(codes.Ok, "Templates listed")
	return result, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, templateID uuid.UUID) (*models.TripTemplate, error) {
	ctx, span := otel.Tracer("TemplateRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "trip_templates"),
		attribute.String("db.template.id", templateID.String()),
	))
	defer span.End()

	var tpl models.TripTemplate
	err := scanTemplate(r.pgpool.QueryRow(ctx, `SELECT `+templateColumns+` FROM trip_templates WHERE id = $1`, templateID), &tpl)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Template not found")
			return nil, fmt.Errorf("template %s not found: %w", templateID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching template: %w", err)
	}

	span.SetStatus(codes.Ok, "Template fetched")
	return &tpl, nil
}
