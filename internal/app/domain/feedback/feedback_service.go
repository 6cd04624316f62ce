package feedback

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

// minFeedbackForInsights is the floor below which insight generation is not
// attempted after a submission.
const minFeedbackForInsights = 5

var _ Service = (*ServiceImpl)(nil)

// PreferenceUpdater folds a rating into the user's smoothed preference.
type PreferenceUpdater interface {
	ApplyRating(ctx context.Context, userID uuid.UUID, itemType string, rating int, category *string) (*models.UserPreference, error)
}

// InsightGenerator derives trend/prediction insights from accumulated
// feedback.
type InsightGenerator interface {
	GenerateFromFeedback(ctx context.Context, userID uuid.UUID) (int, error)
}

// Service defines the business logic contract for feedback.
type Service interface {
	// Submit writes the feedback record and then runs the derived steps:
	// preference update, and insight generation once enough feedback has
	// accumulated. Failures after the write are carried in the result.
	Submit(ctx context.Context, userID uuid.UUID, in models.SubmitFeedbackInput) (*models.SubmitFeedbackResult, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error)
}

type ServiceImpl struct {
	logger      *zap.Logger
	repo        Repository
	preferences PreferenceUpdater
	insights    InsightGenerator
}

func NewService(repo Repository, preferences PreferenceUpdater, insights InsightGenerator, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		repo:        repo,
		preferences: preferences,
		insights:    insights,
	}
}

func (s *ServiceImpl) Submit(ctx context.Context, userID uuid.UUID, in models.SubmitFeedbackInput) (*models.SubmitFeedbackResult, error) {
	ctx, span := otel.Tracer("FeedbackService").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("feedback.item_type", in.ItemType),
		attribute.Int("feedback.rating", in.Rating),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Submit"), zap.String("userID", userID.String()), zap.String("itemType", in.ItemType))

	if userID == uuid.Nil {
		span.SetStatus(codes.Error, "user id required")
		return nil, fmt.Errorf("user id is required: %w", models.ErrBadRequest)
	}

	helpful := in.Rating >= models.HelpfulRatingThreshold

	record, err := s.repo.Insert(ctx, userID, in, helpful)
	if err != nil {
		l.Error("Failed to record feedback", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record feedback")
		return nil, fmt.Errorf("error recording feedback: %w", err)
	}

	if m := metrics.Get(); m != nil {
		m.FeedbackSubmittedTotal.Add(ctx, 1)
	}

	// Feedback is durable from here on. Derived analytics may still fail
	// and those failures are reported, not rolled back.
	result := &models.SubmitFeedbackResult{FeedbackID: record.ID}

	if _, err := s.preferences.ApplyRating(ctx, userID, in.ItemType, in.Rating, in.Category); err != nil {
		l.Warn("Preference update failed after feedback write", zap.Error(err))
		span.RecordError(err)
		result.PreferenceError = err.Error()
	} else {
		result.PreferenceUpdated = true
	}

	total, err := s.repo.CountForUser(ctx, userID)
	if err != nil {
		l.Warn("Feedback count failed after feedback write", zap.Error(err))
		span.RecordError(err)
		result.InsightError = err.Error()
	} else if total >= minFeedbackForInsights {
		written, err := s.insights.GenerateFromFeedback(ctx, userID)
		if err != nil {
			l.Warn("Insight generation failed after feedback write", zap.Error(err))
			span.RecordError(err)
			result.InsightError = err.Error()
		} else {
			result.InsightsGenerated = written
		}
	}

	l.Info("Feedback submitted",
		zap.String("feedbackID", record.ID.String()),
		zap.Bool("preferenceUpdated", result.PreferenceUpdated),
		zap.Int("insightsGenerated", result.InsightsGenerated))
	span.SetStatus(codes.Ok, "Feedback submitted")
	return result, nil
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error) {
	ctx, span := otel.Tracer("FeedbackService").Start(ctx, "ListForUser", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	list, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch feedback history", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch feedback")
		return nil, fmt.Errorf("error fetching feedback: %w", err)
	}

	span.SetStatus(codes.Ok, "Feedback fetched")
	return list, nil
}
