package behavior

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	"github.com/ngandinhtk/tripwise/internal/observability/metrics"
)

var _ Service = (*ServiceImpl)(nil)

// PatternAnalyzer is the downstream analysis step that runs after each
// tracked behavior.
type PatternAnalyzer interface {
	AnalyzePatterns(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service defines the business logic contract for behavior tracking.
type Service interface {
	// Track appends a behavior record, then runs pattern analysis for the
	// same user. The record is durable even when the analysis fails; the
	// analysis outcome is part of the result.
	Track(ctx context.Context, userID uuid.UUID, in models.TrackBehaviorInput) (*models.TrackBehaviorResult, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserBehavior, error)
}

type ServiceImpl struct {
	logger   *zap.Logger
	repo     Repository
	analyzer PatternAnalyzer
}

func NewService(repo Repository, analyzer PatternAnalyzer, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		analyzer: analyzer,
	}
}

func (s *ServiceImpl) Track(ctx context.Context, userID uuid.UUID, in models.TrackBehaviorInput) (*models.TrackBehaviorResult, error) {
	ctx, span := otel.Tracer("BehaviorService").Start(ctx, "Track", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("behavior.action", in.Action),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Track"), zap.String("userID", userID.String()), zap.String("action", in.Action))

	record, err := s.repo.Insert(ctx, userID, in)
	if err != nil {
		l.Error("Failed to record behavior", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record behavior")
		return nil, fmt.Errorf("error recording behavior: %w", err)
	}

	if m := metrics.Get(); m != nil {
		m.BehaviorsTrackedTotal.Add(ctx, 1)
	}

	result := &models.TrackBehaviorResult{BehaviorID: record.ID}

	// The behavior row is committed at this point. Analysis errors are
	// carried in the result rather than rolled into the call's error.
	written, err := s.analyzer.AnalyzePatterns(ctx, userID)
	if err != nil {
		l.Warn("Pattern analysis failed after behavior write", zap.Error(err))
		span.RecordError(err)
		result.AnalysisError = err.Error()
	} else {
		result.PatternsDetected = written
	}

	l.Info("Behavior tracked",
		zap.String("behaviorID", record.ID.String()),
		zap.Int("patterns", result.PatternsDetected))
	span.SetStatus(codes.Ok, "Behavior tracked")
	return result, nil
}

func (s *ServiceImpl) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserBehavior, error) {
	ctx, span := otel.Tracer("BehaviorService").Start(ctx, "ListRecent", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	behaviors, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to fetch behavior history", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch behaviors")
		return nil, fmt.Errorf("error fetching behaviors: %w", err)
	}

	span.SetStatus(codes.Ok, "Behaviors fetched")
	return behaviors, nil
}
