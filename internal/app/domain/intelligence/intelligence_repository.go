package intelligence

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
	"golang.org/x/sync/errgroup"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	database "github.com/ngandinhtk/tripwise/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the contract for engagement count reads.
type Repository interface {
	// CountsForUser issues the three per-collection counts behind the
	// intelligence score.
	CountsForUser(ctx context.Context, userID uuid.UUID) (*models.EngagementCounts, error)
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

// CountsForUser runs the three independent count queries concurrently; each
// is a cheap indexed scan but the round trips add up on a remote pool.
func (r *RepositoryImpl) CountsForUser(ctx context.Context, userID uuid.UUID) (*models.EngagementCounts, error) {
	ctx, span := otel.Tracer("IntelligenceRepo").Start(ctx, "CountsForUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(zap.String("method", "CountsForUser"), zap.String("userID", userID.String()))

	var counts models.EngagementCounts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.pgpool.QueryRow(gctx, `SELECT COUNT(*) FROM user_behaviors WHERE user_id = $1`, userID).Scan(&counts.Behaviors)
	})
	g.Go(func() error {
		return r.pgpool.QueryRow(gctx, `SELECT COUNT(*) FROM user_feedback WHERE user_id = $1`, userID).Scan(&counts.Feedbacks)
	})
	g.Go(func() error {
		return r.pgpool.QueryRow(gctx, `SELECT COUNT(*) FROM ai_insights WHERE user_id = $1`, userID).Scan(&counts.Insights)
	})

	if err := g.Wait(); err != nil {
		l.Error("Failed to count engagement records", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB count failed")
		return nil, fmt.Errorf("database error counting engagement: %w", err)
	}

	l.Debug("Engagement counts fetched",
		zap.Int64("behaviors", counts.Behaviors),
		zap.Int64("feedbacks", counts.Feedbacks),
		zap.Int64("insights", counts.Insights))
	span.SetStatus(codes.Ok, "Counts fetched")
	return &counts, nil
}
