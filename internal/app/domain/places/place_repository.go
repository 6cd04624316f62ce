package places

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
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

// Repository serves the read-only place catalogue.
type Repository interface {
	Search(ctx context.Context, filter models.PlaceFilter) ([]*models.Place, error)
	GetByID(ctx context.Context, placeID uuid.UUID) (*models.Place, error)
	ListCountries(ctx context.Context) ([]*models.Country, error)
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

const placeColumns = `id, name, category, description, country_code, city, latitude, longitude, rating, price_level, image_url, created_at`

func scanPlace(row pgx.Row, p *models.Place) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Description, &p.CountryCode, &p.City,
		&p.Latitude, &p.Longitude, &p.Rating, &p.PriceLevel, &p.ImageURL, &p.CreatedAt,
	)
}

func (r *RepositoryImpl) Search(ctx context.Context, filter models.PlaceFilter) ([]*models.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "Search", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "places"),
		attribute.String("place.filter.category", filter.Category),
		attribute.String("place.filter.country", filter.CountryCode),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Search"))

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(placeColumns).
		From("places")

	if filter.SearchText != "" {
		like := "%" + filter.SearchText + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"name": like},
			sq.ILike{"description": like},
		})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.CountryCode != "" {
		builder = builder.Where(sq.Eq{"country_code": filter.CountryCode})
	}
	if filter.City != "" {
		builder = builder.Where(sq.Eq{"city": filter.City})
	}
	if filter.MinRating > 0 {
		builder = builder.Where(sq.GtOrEq{"rating": filter.MinRating})
	}

	switch filter.SortBy {
	case "name":
		builder = builder.OrderBy("name ASC")
	case "price":
		builder = builder.OrderBy("price_level ASC NULLS LAST", "rating DESC")
	default:
		builder = builder.OrderBy("rating DESC", "name ASC")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	builder = builder.Limit(uint64(limit))
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query build failed")
		return nil, fmt.Errorf("failed to build place search query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.Error("Place search query failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error searching places: %w", err)
	}
	defer rows.Close()

	var results []*models.Place
	for rows.Next() {
		var place models.Place
		if err := scanPlace(rows, &place); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning place: %w", err)
		}
		results = append(results, &place)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating places: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(results)))
	span.SetStatus(codes.Ok, "Places searched")
	return results, nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, placeID uuid.UUID) (*models.Place, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "places"),
		attribute.String("db.place.id", placeID.String()),
	))
	defer span.End()

	var place models.Place
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	err := scanPlace(r.pgpool.QueryRow(ctx, query, placeID), &place)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Place not found")
			return nil, fmt.Errorf("place %s not found: %w", placeID, models.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching place: %w", err)
	}

	span.SetStatus(codes.Ok, "Place fetched")
	return &place, nil
}

func (r *RepositoryImpl) ListCountries(ctx context.Context) ([]*models.Country, error) {
	ctx, span := otel.Tracer("PlaceRepo").Start(ctx, "ListCountries", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "countries"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `SELECT code, name, region FROM countries ORDER BY name`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing countries: %w", err)
	}
	defer rows.Close()

	var countries []*models.Country
	for rows.Next() {
		var country models.Country
		if err := rows.Scan(&country.Code, &country.Name, &country.Region); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning country: %w", err)
		}
		countries = append(countries, &country)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating countries: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(countries)))
	span.SetStatus(codes.Ok, "Countries listed")
	return countries, nil
}
