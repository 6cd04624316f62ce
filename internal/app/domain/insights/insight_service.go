package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	"github.com/ngandinhtk/tripwise/internal/observability/metrics"
	"github.com/ngandinhtk/tripwise/internal/pkg/config"
)

// Analysis thresholds. A pattern needs at least minBehaviorsForPattern
// records and a >20% share; favorites and avoid signals need the sample
// floors below.
const (
	minBehaviorsForPattern = 3
	patternShareThreshold  = 0.2
	topActionsExamined     = 3

	minFeedbackForInsights = 5
	favoriteRatingFloor    = 4.0
	avoidRatingCeiling     = 3.0
	minFavoriteSamples     = 3
	minAvoidSamples        = 2

	recommendationLimit = 5
	insightFetchLimit   = 50
)

var _ Service = (*ServiceImpl)(nil)

// BehaviorReader is the slice of the behavior store the pattern analyzer
// needs.
type BehaviorReader interface {
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.UserBehavior, error)
}

// FeedbackReader is the slice of the feedback store the insight generator
// needs.
type FeedbackReader interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error)
}

// Service derives and serves insights.
type Service interface {
	// AnalyzePatterns frequency-counts the user's recent behaviors and
	// upserts a pattern insight per dominant action. Returns how many
	// insights were written.
	AnalyzePatterns(ctx context.Context, userID uuid.UUID) (int, error)
	// GenerateFromFeedback averages ratings per category and upserts trend
	// (favorite) and prediction (avoid) insights. Returns how many insights
	// were written.
	GenerateFromFeedback(ctx context.Context, userID uuid.UUID) (int, error)
	// Recommendations returns up to five fresh, actionable insights,
	// predictions excluded.
	Recommendations(ctx context.Context, userID uuid.UUID) ([]*models.AIInsight, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.AIInsight, error)
}

type ServiceImpl struct {
	logger    *zap.Logger
	repo      Repository
	behaviors BehaviorReader
	feedback  FeedbackReader
	cfg       config.IntelligenceConfig
	titleCase cases.Caser
}

func NewService(repo Repository, behaviors BehaviorReader, feedback FeedbackReader, cfg config.IntelligenceConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		behaviors: behaviors,
		feedback:  feedback,
		cfg:       cfg,
		titleCase: cases.Title(language.English),
	}
}

func (s *ServiceImpl) AnalyzePatterns(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx, span := otel.Tracer("InsightService").Start(ctx, "AnalyzePatterns", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "AnalyzePatterns"), zap.String("userID", userID.String()))

	behaviors, err := s.behaviors.ListRecent(ctx, userID, s.cfg.AnalysisHistoryLimit)
	if err != nil {
		l.Error("Failed to load behavior history", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load behavior history")
		return 0, fmt.Errorf("error loading behavior history: %w", err)
	}

	total := len(behaviors)
	if total < minBehaviorsForPattern {
		l.Debug("Not enough behavior records for pattern analysis", zap.Int("total", total))
		span.SetStatus(codes.Ok, "Not enough records")
		return 0, nil
	}

	actionCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	for _, b := range behaviors {
		actionCounts[b.Action]++
		if b.Category != nil && *b.Category != "" {
			categoryCounts[*b.Category]++
		}
	}

	type actionFreq struct {
		action string
		count  int
	}
	freqs := make([]actionFreq, 0, len(actionCounts))
	for action, count := range actionCounts {
		freqs = append(freqs, actionFreq{action, count})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].count != freqs[j].count {
			return freqs[i].count > freqs[j].count
		}
		return freqs[i].action < freqs[j].action
	})
	if len(freqs) > topActionsExamined {
		freqs = freqs[:topActionsExamined]
	}

	written := 0
	for _, f := range freqs {
		share := float64(f.count) / float64(total)
		if share <= patternShareThreshold {
			continue
		}

		categories := make(map[string]any, len(categoryCounts))
		for cat, n := range categoryCounts {
			categories[cat] = n
		}

		insight := &models.AIInsight{
			UserID:      userID,
			InsightType: models.InsightTypePattern,
			Subject:     f.action,
			Title:       fmt.Sprintf("Frequent activity: %s", f.action),
			Description: fmt.Sprintf("%q accounts for %d of your last %d actions.", f.action, f.count, total),
			Confidence:  clamp01(share),
			Data: map[string]any{
				"action":     f.action,
				"count":      f.count,
				"total":      total,
				"categories": categories,
			},
			Actionable: true,
		}
		if _, err := s.repo.Upsert(ctx, insight); err != nil {
			l.Error("Failed to store pattern insight", zap.String("action", f.action), zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to store pattern insight")
			return written, fmt.Errorf("error storing pattern insight: %w", err)
		}
		written++
	}

	if m := metrics.Get(); m != nil && written > 0 {
		m.InsightsGeneratedTotal.Add(ctx, int64(written))
	}

	l.Info("Pattern analysis complete", zap.Int("examined", total), zap.Int("written", written))
	span.SetAttributes(attribute.Int("insights.written", written))
	span.SetStatus(codes.Ok, "Pattern analysis complete")
	return written, nil
}

func (s *ServiceImpl) GenerateFromFeedback(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx, span := otel.Tracer("InsightService").Start(ctx, "GenerateFromFeedback", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "GenerateFromFeedback"), zap.String("userID", userID.String()))

	feedback, err := s.feedback.ListForUser(ctx, userID)
	if err != nil {
		l.Error("Failed to load feedback history", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load feedback history")
		return 0, fmt.Errorf("error loading feedback history: %w", err)
	}

	if len(feedback) < minFeedbackForInsights {
		l.Debug("Not enough feedback records for insight generation", zap.Int("total", len(feedback)))
		span.SetStatus(codes.Ok, "Not enough records")
		return 0, nil
	}

	stats := categoryStats(feedback)

	written := 0
	for _, st := range stats {
		var insight *models.AIInsight
		switch {
		case st.AvgRating >= favoriteRatingFloor && st.Count >= minFavoriteSamples:
			insight = &models.AIInsight{
				UserID:      userID,
				InsightType: models.InsightTypeTrend,
				Subject:     st.Category,
				Title:       fmt.Sprintf("%s is a favorite", s.titleCase.String(st.Category)),
				Description: fmt.Sprintf("You rated %s experiences %.1f on average across %d reviews.", st.Category, st.AvgRating, st.Count),
				Confidence:  clamp01(st.AvgRating / 5),
				Data: map[string]any{
					"category":   st.Category,
					"avg_rating": st.AvgRating,
					"count":      st.Count,
				},
				Actionable: true,
			}
		case st.AvgRating < avoidRatingCeiling && st.Count >= minAvoidSamples:
			insight = &models.AIInsight{
				UserID:      userID,
				InsightType: models.InsightTypePrediction,
				Subject:     st.Category,
				Title:       fmt.Sprintf("%s may disappoint you", s.titleCase.String(st.Category)),
				Description: fmt.Sprintf("You rated %s experiences %.1f on average across %d reviews; consider alternatives.", st.Category, st.AvgRating, st.Count),
				Confidence:  clamp01(1 - st.AvgRating/5),
				Data: map[string]any{
					"category":   st.Category,
					"avg_rating": st.AvgRating,
					"count":      st.Count,
				},
				Actionable: false,
			}
		default:
			continue
		}

		if _, err := s.repo.Upsert(ctx, insight); err != nil {
			l.Error("Failed to store feedback insight", zap.String("category", st.Category), zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to store feedback insight")
			return written, fmt.Errorf("error storing feedback insight: %w", err)
		}
		written++
	}

	if m := metrics.Get(); m != nil && written > 0 {
		m.InsightsGeneratedTotal.Add(ctx, int64(written))
	}

	l.Info("Feedback insight generation complete",
		zap.Int("feedback", len(feedback)),
		zap.Int("written", written))
	span.SetAttributes(attribute.Int("insights.written", written))
	span.SetStatus(codes.Ok, "Insight generation complete")
	return written, nil
}

func (s *ServiceImpl) Recommendations(ctx context.Context, userID uuid.UUID) ([]*models.AIInsight, error) {
	ctx, span := otel.Tracer("InsightService").Start(ctx, "Recommendations", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Recommendations"), zap.String("userID", userID.String()))

	all, err := s.repo.ListForUser(ctx, userID, insightFetchLimit)
	if err != nil {
		l.Error("Failed to fetch insights for recommendations", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch insights")
		return nil, fmt.Errorf("error fetching recommendations: %w", err)
	}

	cutoff := time.Now().Add(-s.cfg.RecommendationMaxAge)
	recs := make([]*models.AIInsight, 0, recommendationLimit)
	for _, in := range all {
		if !in.Actionable || in.InsightType == models.InsightTypePrediction {
			continue
		}
		if in.UpdatedAt.Before(cutoff) {
			continue
		}
		recs = append(recs, in)
		if len(recs) == recommendationLimit {
			break
		}
	}

	l.Debug("Recommendations assembled", zap.Int("count", len(recs)))
	span.SetAttributes(attribute.Int("recommendations.count", len(recs)))
	span.SetStatus(codes.Ok, "Recommendations assembled")
	return recs, nil
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.AIInsight, error) {
	ctx, span := otel.Tracer("InsightService").Start(ctx, "ListForUser", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	list, err := s.repo.ListForUser(ctx, userID, insightFetchLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch insights")
		return nil, fmt.Errorf("error fetching insights: %w", err)
	}

	span.SetStatus(codes.Ok, "Insights fetched")
	return list, nil
}

// categoryStats averages ratings per non-empty category, sorted by category
// for deterministic output.
func categoryStats(feedback []*models.UserFeedback) []models.CategoryRatingStat {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, f := range feedback {
		if f.Category == nil || *f.Category == "" {
			continue
		}
		sums[*f.Category] += f.Rating
		counts[*f.Category]++
	}

	stats := make([]models.CategoryRatingStat, 0, len(counts))
	for cat, n := range counts {
		stats = append(stats, models.CategoryRatingStat{
			Category:  cat,
			Count:     n,
			AvgRating: float64(sums[cat]) / float64(n),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
