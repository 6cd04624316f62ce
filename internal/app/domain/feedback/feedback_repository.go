package feedback

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

// Repository defines the contract for the append-only feedback log.
type Repository interface {
	Insert(ctx context.Context, userID uuid.UUID, in models.SubmitFeedbackInput, helpful bool) (*models.UserFeedback, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
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

func (r *RepositoryImpl) Insert(ctx context.Context, userID uuid.UUID, in models.SubmitFeedbackInput, helpful bool) (*models.UserFeedback, error) {
	ctx, span := otel.Tracer("FeedbackRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "user_feedback"),
		attribute.String("db.user.id", userID.String()),
		attribute.String("feedback.item_type", in.ItemType),
		attribute.Int("feedback.rating", in.Rating),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "Insert"), zap.String("userID", userID.String()), zap.String("itemType", in.ItemType))
	l.Debug("Recording user feedback")

	if in.ItemType == "" {
		span.SetStatus(codes.Error, "Item type cannot be empty")
		return nil, fmt.Errorf("feedback item type cannot be empty: %w", models.ErrBadRequest)
	}

	var f models.UserFeedback
	query := `
        INSERT INTO user_feedback (user_id, trip_id, item_id, item_type, rating, comment, category, helpful, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, Now())
        RETURNING id, user_id, trip_id, item_id, item_type, rating, comment, category, helpful, created_at`

	err := r.pgpool.QueryRow(ctx, query,
		userID, in.TripID, in.ItemID, in.ItemType, in.Rating, in.Comment, in.Category, helpful,
	).Scan(
		&f.ID,
		&f.UserID,
		&f.TripID,
		&f.ItemID,
		&f.ItemType,
		&f.Rating,
		&f.Comment,
		&f.Category,
		&f.Helpful,
		&f.CreatedAt,
	)
	if err != nil {
		l.Error("Failed to insert feedback record", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error recording feedback: %w", err)
	}

	span.SetAttributes(attribute.String("db.feedback.id", f.ID.String()))
	span.SetStatus(codes.Ok, "Feedback recorded")
	return &f, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error) {
	ctx, span := otel.Tracer("FeedbackRepo").Start(ctx, "ListForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_feedback"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "ListForUser"), zap.String("userID", userID.String()))

	query := `
        SELECT id, user_id, trip_id, item_id, item_type, rating, comment, category, helpful, created_at
        FROM user_feedback
        WHERE user_id = $1
        ORDER BY created_at DESC`

	rows, err := r.pgpool.Query(ctx, query, userID)
	if err != nil {
		l.Error("Failed to query feedback history", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching feedback: %w", err)
	}
	defer rows.Close()

	var list []*models.UserFeedback
	for rows.Next() {
		var f models.UserFeedback
		err := rows.Scan(
			&f.ID, &f.UserID, &f.TripID, &f.ItemID, &f.ItemType, &f.Rating,
			&f.Comment, &f.Category, &f.Helpful, &f.CreatedAt,
		)
		if err != nil {
			l.Error("Failed to scan feedback row", zap.Error(err))
			span.RecordError(err)
			return nil, fmt.Errorf("database error scanning feedback: %w", err)
		}
		list = append(list, &f)
	}

	if err = rows.Err(); err != nil {
		l.Error("Error iterating feedback rows", zap.Error(err))
		span.RecordError(err)
		return nil, fmt.Errorf("database error reading feedback: %w", err)
	}

	l.Debug("Fetched feedback history", zap.Int("count", len(list)))
	span.SetStatus(codes.Ok, "Feedback fetched")
	return list, nil
}

func (r *RepositoryImpl) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	ctx, span := otel.Tracer("FeedbackRepo").Start(ctx, "CountForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "user_feedback"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	var count int64
	err := r.pgpool.QueryRow(ctx, `SELECT COUNT(*) FROM user_feedback WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB count failed")
		return 0, fmt.Errorf("database error counting feedback: %w", err)
	}

	span.SetStatus(codes.Ok, "Feedback counted")
	return count, nil
}
