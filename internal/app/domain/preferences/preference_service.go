package preferences

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
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for preference scores.
type Service interface {
	// ApplyRating folds one rating into the smoothed preference for
	// (itemType, category).
	ApplyRating(ctx context.Context, userID uuid.UUID, itemType string, rating int, category *string) (*models.UserPreference, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserPreference, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) ApplyRating(ctx context.Context, userID uuid.UUID, itemType string, rating int, category *string) (*models.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "ApplyRating", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("item.type", itemType),
		attribute.Int("rating", rating),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "ApplyRating"), zap.String("userID", userID.String()), zap.String("itemType", itemType))

	if itemType == "" {
		span.SetStatus(codes.Error, "item type required")
		return nil, fmt.Errorf("item type cannot be empty: %w", models.ErrBadRequest)
	}

	key := models.PreferenceKey(itemType, category)
	target := models.RatingToScore(rating)

	pref, err := s.repo.Upsert(ctx, userID, key, target)
	if err != nil {
		l.Error("Failed to apply rating to preference", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to apply rating")
		return nil, fmt.Errorf("error updating preference: %w", err)
	}

	l.Info("Preference updated",
		zap.String("key", key),
		zap.Float64("score", pref.Score),
		zap.Int("frequency", pref.Frequency))
	span.SetStatus(codes.Ok, "Preference updated")
	return pref, nil
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserPreference, error) {
	ctx, span := otel.Tracer("PreferenceService").Start(ctx, "ListForUser", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "ListForUser"), zap.String("userID", userID.String()))

	prefs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		l.Error("Failed to fetch user preferences", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch preferences")
		return nil, fmt.Errorf("error fetching preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	return prefs, nil
}
