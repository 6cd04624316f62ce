package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	"github.com/ngandinhtk/tripwise/internal/pkg/config"
)

type MockIntelligenceRepo struct {
	mock.Mock
}

func (m *MockIntelligenceRepo) CountsForUser(ctx context.Context, userID uuid.UUID) (*models.EngagementCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EngagementCounts), args.Error(1)
}

func testConfig() config.IntelligenceConfig {
	return config.IntelligenceConfig{ScoreCacheTTL: 30 * time.Second}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name      string
		behaviors int64
		feedbacks int64
		insights  int64
		expected  int
	}{
		{name: "no engagement", behaviors: 0, feedbacks: 0, insights: 0, expected: 0},
		{name: "all terms saturated", behaviors: 100, feedbacks: 20, insights: 10, expected: 100},
		{name: "beyond caps stays at 100", behaviors: 5000, feedbacks: 400, insights: 99, expected: 100},
		{name: "half of each cap", behaviors: 50, feedbacks: 10, insights: 5, expected: 50},
		{name: "behaviors only", behaviors: 100, feedbacks: 0, insights: 0, expected: 30},
		{name: "feedback only", behaviors: 0, feedbacks: 20, insights: 0, expected: 40},
		{name: "insights only", behaviors: 0, feedbacks: 0, insights: 10, expected: 30},
		{name: "single behavior rounds down", behaviors: 1, feedbacks: 0, insights: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeScore(tt.behaviors, tt.feedbacks, tt.insights))
		})
	}
}

func TestComputeScoreMonotonic(t *testing.T) {
	// More engagement never lowers the score.
	prev := -1
	for b := int64(0); b <= 120; b += 10 {
		score := ComputeScore(b, 5, 2)
		assert.GreaterOrEqual(t, score, prev, "score dropped at behaviors=%d", b)
		prev = score
	}

	// Score is always within [0,100].
	for _, counts := range [][3]int64{{0, 0, 0}, {1, 1, 1}, {99, 19, 9}, {1e6, 1e6, 1e6}} {
		score := ComputeScore(counts[0], counts[1], counts[2])
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{0, models.LevelNovice},
		{29, models.LevelNovice},
		{30, models.LevelLearning},
		{49, models.LevelLearning},
		{50, models.LevelSmart},
		{69, models.LevelSmart},
		{70, models.LevelExpert},
		{89, models.LevelExpert},
		{90, models.LevelGenius},
		{100, models.LevelGenius},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestScoreCachesResult(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockIntelligenceRepo)
	mockRepo.On("CountsForUser", mock.Anything, userID).
		Return(&models.EngagementCounts{Behaviors: 50, Feedbacks: 10, Insights: 5}, nil).
		Once()

	svc := NewService(mockRepo, testConfig(), zap.NewNop())

	first, err := svc.Score(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 50, first.Score)
	assert.Equal(t, models.LevelSmart, first.Level)

	// Second call inside the TTL never touches the repository.
	second, err := svc.Score(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.AssertExpectations(t)
}

func TestScoreRepositoryError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	mockRepo := new(MockIntelligenceRepo)
	mockRepo.On("CountsForUser", mock.Anything, userID).Return(nil, errors.New("db down"))

	svc := NewService(mockRepo, testConfig(), zap.NewNop())

	result, err := svc.Score(ctx, userID)
	assert.Error(t, err)
	assert.Nil(t, result)
	mockRepo.AssertExpectations(t)
}
