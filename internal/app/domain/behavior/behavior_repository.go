package behavior

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

// Repository defines the contract for the append-only behavior log.
type Repository interface {
	Insert(ctx context.Context, userID uuid.UUID, in models.TrackBehaviorInput) (*models.UserBehavior, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserBehavior, error)
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

func (r *RepositoryImpl) Insert(ctx context.Context, userID uuid.UUID, in models.TrackBehaviorInput) (*models.UserBehavior, error) {
	ctx, span := otel.Tracer("BehaviorRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_behaviors"),
		attribute.String("db.user.id", userID.String()),
		attribute.String("behavior.action", in.Action),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Insert"), zap.String("userID", userID.String()), zap.String("action", in.Action))
	l.Debug("Recording user behavior")

	if in.Action == "" {
		span.SetStatus(codes.Error, "Action cannot be empty")
		return nil, fmt.Errorf("behavior action cannot be empty: %w", models.ErrBadRequest)
	}

	var b models.UserBehavior
	query := `
        INSERT INTO user_behaviors (user_id, action, category, value, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5, Now())
        RETURNING id, user_id, action, category, value, metadata, created_at`

	err := r.pgpool.QueryRow(ctx, query, userID, in.Action, in.Category, in.Value, in.Metadata).Scan(
		&b.ID,
		&b.UserID,
		&b.Action,
		&b.Category,
		&b.Value,
		&b.Metadata,
		&b.CreatedAt,
	)
	if err != nil {
		l.Error("Failed to insert behavior record", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error recording behavior: %w", err)
	}

	span.SetAttributes(attribute.String("db.behavior.id", b.ID.String()))
	span.SetStatus(codes.Ok, "Behavior recorded")
	return &b, nil
}

func (r *RepositoryImpl) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserBehavior, error) {
	ctx, span := otel.Tracer("BehaviorRepo").Start(ctx, "ListRecent", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_behaviors"),
		attribute.String("db.user.id", userID.String()),
		attribute.Int("limit", limit),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "ListRecent"), zap.String("userID", userID.String()))

	query := `
        SELECT id, user_id, action, category, value, metadata, created_at
        FROM user_behaviors
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		l.Error("Failed to query behavior history", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching behaviors: %w", err)
	}
	defer rows.Close()

	var behaviors []*models.UserBehavior
	for rows.Next() {
		var b models.UserBehavior
		err := rows.Scan(
			&b.ID, &b.UserID, &b.Action, &b.Category, &b.Value, &b.Metadata, &b.CreatedAt,
		)
		if err != nil {
			l.Error("Failed to scan behavior row", zap.Error(err))
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning behavior: %w", err)
		}
		behaviors = append(behaviors, &b)
	}

	if err = rows.Err(); err != nil {
		l.Error("Error iterating behavior rows", zap.Error(err))
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading behaviors: %w", err)
	}

	l.Debug("Fetched behavior history", zap.Int("count", len(behaviors)))
	span.SetStatus(codes.Ok, "Behaviors fetched")
	return behaviors, nil
}
