package intelligence

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	"github.com/ngandinhtk/tripwise/internal/observability/metrics"
	"github.com/ngandinhtk/tripwise/internal/pkg/config"
)

// Score weights and saturation points. Each term saturates once the count
// reaches its cap, so the total stays in [0,100].
const (
	behaviorCap    = 100
	behaviorWeight = 30
	feedbackCap    = 20
	feedbackWeight = 40
	insightCap     = 10
	insightWeight  = 30
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the intelligence score.
type Service interface {
	Score(ctx context.Context, userID uuid.UUID) (*models.IntelligenceScore, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewService(repo Repository, cfg config.IntelligenceConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(cfg.ScoreCacheTTL, 2*cfg.ScoreCacheTTL),
	}
}

func (s *ServiceImpl) Score(ctx context.Context, userID uuid.UUID) (*models.IntelligenceScore, error) {
	ctx, span := otel.Tracer("IntelligenceService").Start(ctx, "Score", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Score"), zap.String("userID", userID.String()))

	cacheKey := "score:" + userID.String()
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		if m := metrics.Get(); m != nil {
			m.ScoreCacheHitsTotal.Add(ctx, 1)
		}
		span.SetStatus(codes.Ok, "Score served from cache")
		return cached.(*models.IntelligenceScore), nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	counts, err := s.repo.CountsForUser(ctx, userID)
	if err != nil {
		l.Error("Failed to fetch engagement counts", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch counts")
		return nil, fmt.Errorf("error computing intelligence score: %w", err)
	}

	score := ComputeScore(counts.Behaviors, counts.Feedbacks, counts.Insights)
	result := &models.IntelligenceScore{
		Score:     score,
		Level:     LevelForScore(score),
		Behaviors: counts.Behaviors,
		Feedbacks: counts.Feedbacks,
		Insights:  counts.Insights,
	}

	s.cache.Set(cacheKey, result, cache.DefaultExpiration)

	if m := metrics.Get(); m != nil {
		m.ScoreComputationsTotal.Add(ctx, 1)
	}

	l.Debug("Intelligence score computed",
		zap.Int("score", result.Score),
		zap.String("level", result.Level))
	span.SetAttributes(attribute.Int("intelligence.score", result.Score))
	span.SetStatus(codes.Ok, "Score computed")
	return result, nil
}

// ComputeScore combines the three engagement counts into the 0-100 composite.
func ComputeScore(behaviors, feedbacks, insights int64) int {
	behaviorScore := math.Min(float64(behaviors)/behaviorCap, 1) * behaviorWeight
	feedbackScore := math.Min(float64(feedbacks)/feedbackCap, 1) * feedbackWeight
	insightScore := math.Min(float64(insights)/insightCap, 1) * insightWeight
	return int(math.Round(behaviorScore + feedbackScore + insightScore))
}

// LevelForScore maps a score onto its discrete engagement label.
func LevelForScore(score int) string {
	switch {
	case score >= 90:
		return models.LevelGenius
	case score >= 70:
		return models.LevelExpert
	case score >= 50:
		return models.LevelSmart
	case score >= 30:
		return models.LevelLearning
	default:
		return models.LevelNovice
	}
}
