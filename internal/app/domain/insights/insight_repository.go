package insights

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

// Repository defines the contract for insight persistence. Insights carry a
// (user, type, subject) identity so repeated analysis refreshes rows instead
// of piling up duplicates.
type Repository interface {
	Upsert(ctx context.Context, insight *models.AIInsight) (*models.AIInsight, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AIInsight, error)
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

func (r *RepositoryImpl) Upsert(ctx context.Context, insight *models.AIInsight) (*models.AIInsight, error) {
	ctx, span := otel.Tracer("InsightRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "ai_insights"),
		attribute.String("db.user.id", insight.UserID.String()),
		attribute.String("insight.type", insight.InsightType),
		attribute.String("insight.subject", insight.Subject),
	))
	defer span.End()

	l := r.logger.With(
		zap.String("method", "Upsert"),
		zap.String("userID", insight.UserID.String()),
		zap.String("type", insight.InsightType),
		zap.String("subject", insight.Subject),
	)
	l.Debug("Upserting insight")

	if insight.InsightType == "" || insight.Subject == "" {
		span.SetStatus(codes.Error, "Insight type and subject are required")
		return nil, fmt.Errorf("insight type and subject cannot be empty: %w", models.ErrBadRequest)
	}

	var out models.AIInsight
	query := `
        INSERT INTO ai_insights
            (user_id, insight_type, subject, title, description, confidence, data, actionable, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, Now(), Now())
        ON CONFLICT (user_id, insight_type, subject) DO UPDATE
        SET title       = EXCLUDED.title,
            description = EXCLUDED.description,
            confidence  = EXCLUDED.confidence,
            data        = EXCLUDED.data,
            actionable  = EXCLUDED.actionable,
            updated_at  = Now()
        RETURNING id, user_id, insight_type, subject, title, description, confidence, data, actionable, created_at, updated_at`

	err := r.pgpool.QueryRow(ctx, query,
		insight.UserID,
		insight.InsightType,
		insight.Subject,
		insight.Title,
		insight.Description,
		insight.Confidence,
		insight.Data,
		insight.Actionable,
	).Scan(
		&out.ID,
		&out.UserID,
		&out.InsightType,
		&out.Subject,
		&out.Title,
		&out.Description,
		&out.Confidence,
		&out.Data,
		&out.Actionable,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		l.Error("Failed to upsert insight", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPSERT failed")
		return nil, fmt.Errorf("database error upserting insight: %w", err)
	}

	span.SetAttributes(attribute.String("db.insight.id", out.ID.String()))
	span.SetStatus(codes.Ok, "Insight upserted")
	return &out, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AIInsight, error) {
	ctx, span := otel.Tracer("InsightRepo").Start(ctx, "ListForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "ai_insights"),
		attribute.String("db.user.id", userID.String()),
		attribute.Int("limit", limit),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "ListForUser"), zap.String("userID", userID.String()))

	query := `
        SELECT id, user_id, insight_type, subject, title, description, confidence, data, actionable, created_at, updated_at
        FROM ai_insights
        WHERE user_id = $1
        ORDER BY updated_at DESC
        LIMIT $2`

	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		l.Error("Failed to query insights", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching insights: %w", err)
	}
	defer rows.Close()

	var list []*models.AIInsight
	for rows.Next() {
		var in models.AIInsight
		err := rows.Scan(
			&in.ID, &in.UserID, &in.InsightType, &in.Subject, &in.Title, &in.Description,
			&in.Confidence, &in.Data, &in.Actionable, &in.CreatedAt, &in.UpdatedAt,
		)
		if err != nil {
			l.Error("Failed to scan insight row", zap.Error(err))
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning insight: %w", err)
		}
		list = append(list, &in)
	}

	if err = rows.Err(); err != nil {
		l.Error("Error iterating insight rows", zap.Error(err))
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading insights: %w", err)
	}

	l.Debug("Fetched insights", zap.Int("count", len(list)))
	span.SetStatus(codes.Ok, "Insights fetched")
	return list, nil
}
