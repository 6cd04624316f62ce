package preferences

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

// Repository defines the contract for preference persistence.
type Repository interface {
	// Upsert applies one rating sample to the (user, key) preference row:
	// a new row starts at the target score with frequency 1, an existing row
	// is smoothed toward the target and its frequency incremented.
	Upsert(ctx context.Context, userID uuid.UUID, key string, target float64) (*models.UserPreference, error)
	GetByKey(ctx context.Context, userID uuid.UUID, key string) (*models.UserPreference, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserPreference, error)
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

// Upsert is a single atomic statement so concurrent samples for the same
// (user, key) cannot lose updates.
func (r *RepositoryImpl) Upsert(ctx context.Context, userID uuid.UUID, key string, target float64) (*models.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", userID.String()),
		attribute.String("preference.key", key),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Upsert"), zap.String("userID", userID.String()), zap.String("key", key))
	l.Debug("Upserting user preference", zap.Float64("target", target))

	if key == "" {
		span.SetStatus(codes.Error, "Preference key cannot be empty")
		return nil, fmt.Errorf("preference key cannot be empty: %w", models.ErrBadRequest)
	}

	var pref models.UserPreference
	query := `
        INSERT INTO user_preferences (user_id, pref_key, score, frequency, last_updated)
        VALUES ($1, $2, $3, 1, Now())
        ON CONFLICT (user_id, pref_key) DO UPDATE
        SET score        = user_preferences.score * 0.7 + EXCLUDED.score * 0.3,
            frequency    = user_preferences.frequency + 1,
            last_updated = Now()
        RETURNING id, user_id, pref_key, score, frequency, last_updated`

	err := r.pgpool.QueryRow(ctx, query, userID, key, target).Scan(
		&pref.ID,
		&pref.UserID,
		&pref.Key,
		&pref.Score,
		&pref.Frequency,
		&pref.LastUpdated,
	)
	if err != nil {
		l.Error("Failed to upsert user preference", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPSERT failed")
		return nil, fmt.Errorf("database error upserting preference: %w", err)
	}

	l.Debug("User preference upserted",
		zap.Float64("score", pref.Score),
		zap.Int("frequency", pref.Frequency))
	span.SetStatus(codes.Ok, "Preference upserted")
	return &pref, nil
}

func (r *RepositoryImpl) GetByKey(ctx context.Context, userID uuid.UUID, key string) (*models.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "GetByKey", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", userID.String()),
		attribute.String("preference.key", key),
	))
	defer span.End()

	var pref models.UserPreference
	query := `
        SELECT id, user_id, pref_key, score, frequency, last_updated
        FROM user_preferences
        WHERE user_id = $1 AND pref_key = $2`

	err := r.pgpool.QueryRow(ctx, query, userID, key).Scan(
		&pref.ID,
		&pref.UserID,
		&pref.Key,
		&pref.Score,
		&pref.Frequency,
		&pref.LastUpdated,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("preference %s not found for user: %w", key, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Preference fetched")
	return &pref, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceRepo").Start(ctx, "ListForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_preferences"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "ListForUser"), zap.String("userID", userID.String()))

	query := `
        SELECT id, user_id, pref_key, score, frequency, last_updated
        FROM user_preferences
        WHERE user_id = $1
        ORDER BY score DESC, frequency DESC`

	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		l.Error("Failed to query user preferences", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*models.UserPreference
	for rows.Next() {
		var pref models.UserPreference
		err := rows.Scan(
			&pref.ID, &pref.UserID, &pref.Key, &pref.Score, &pref.Frequency, &pref.LastUpdated,
		)
		if err != nil {
			l.Error("Failed to scan preference row", zap.Error(err))
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning preference: %w", err)
		}
		prefs = append(prefs, &pref)
	}

	if err = rows.Err(); err != nil {
		l.Error("Error iterating preference rows", zap.Error(err))
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading preferences: %w", err)
	}

	l.Debug("Fetched user preferences", zap.Int("count", len(prefs)))
	span.SetStatus(codes.Ok, "Preferences fetched")
	return prefs, nil
}
