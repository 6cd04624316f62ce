package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Insert(ctx context.Context, userID uuid.UUID, in models.SubmitFeedbackInput, helpful bool) (*models.UserFeedback, error) {
	args := m.Called(ctx, userID, in, helpful)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserFeedback), args.Error(1)
}

func (m *MockFeedbackRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserFeedback, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserFeedback), args.Error(1)
}

func (m *MockFeedbackRepo) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPreferenceUpdater struct {
	mock.Mock
}

func (m *MockPreferenceUpdater) ApplyRating(ctx context.Context, userID uuid.UUID, itemType string, rating int, category *string) (*models.UserPreference, error) {
	args := m.Called(ctx, userID, itemType, rating, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreference), args.Error(1)
}

type MockInsightGenerator struct {
	mock.Mock
}

func (m *MockInsightGenerator) GenerateFromFeedback(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	category := "food"
	input := models.SubmitFeedbackInput{
		ItemType: "place",
		Rating:   5,
		Category: &category,
	}
	stored := &models.UserFeedback{ID: uuid.New(), UserID: userID, ItemType: "place", Rating: 5}

	t.Run("full chain", func(t *testing.T) {
		repo := new(MockFeedbackRepo)
		repo.On("Insert", mock.Anything, userID, input, true).Return(stored, nil).Once()
		repo.On("CountForUser", mock.Anything, userID).Return(int64(7), nil).Once()

		prefs := new(MockPreferenceUpdater)
		prefs.On("ApplyRating", mock.Anything, userID, "place", 5, &category).
			Return(&models.UserPreference{ID: uuid.New()}, nil).Once()

		insights := new(MockInsightGenerator)
		insights.On("GenerateFromFeedback", mock.Anything, userID).Return(2, nil).Once()

		svc := NewService(repo, prefs, insights, zap.NewNop())

		result, err := svc.Submit(ctx, userID, input)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, result.FeedbackID)
		assert.True(t, result.PreferenceUpdated)
		assert.Equal(t, 2, result.InsightsGenerated)
		assert.Empty(t, result.PreferenceError)
		assert.Empty(t, result.InsightError)
		repo.AssertExpectations(t)
		prefs.AssertExpectations(t)
		insights.AssertExpectations(t)
	})

	t.Run("low rating is not helpful", func(t *testing.T) {
		lowInput := models.SubmitFeedbackInput{ItemType: "place", Rating: 2}

		repo := new(MockFeedbackRepo)
		repo.On("Insert", mock.Anything, userID, lowInput, false).Return(stored, nil).Once()
		repo.On("CountForUser", mock.Anything, userID).Return(int64(1), nil).Once()

		prefs := new(MockPreferenceUpdater)
		prefs.On("ApplyRating", mock.Anything, userID, "place", 2, (*string)(nil)).
			Return(&models.UserPreference{ID: uuid.New()}, nil).Once()

		insights := new(MockInsightGenerator)

		svc := NewService(repo, prefs, insights, zap.NewNop())

		result, err := svc.Submit(ctx, userID, lowInput)
		require.NoError(t, err)
		assert.Zero(t, result.InsightsGenerated)
		insights.AssertNotCalled(t, "GenerateFromFeedback", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("preference failure does not fail the submission", func(t *testing.T) {
		repo := new(MockFeedbackRepo)
		repo.On("Insert", mock.Anything, userID, input, true).Return(stored, nil).Once()
		repo.On("CountForUser", mock.Anything, userID).Return(int64(2), nil).Once()

		prefs := new(MockPreferenceUpdater)
		prefs.On("ApplyRating", mock.Anything, userID, "place", 5, &category).
			Return(nil, errors.New("preference store unavailable")).Once()

		svc := NewService(repo, prefs, new(MockInsightGenerator), zap.NewNop())

		result, err := svc.Submit(ctx, userID, input)
		require.NoError(t, err)
		assert.False(t, result.PreferenceUpdated)
		assert.Contains(t, result.PreferenceError, "preference store unavailable")
	})

	t.Run("insight failure is reported in the result", func(t *testing.T) {
		repo := new(MockFeedbackRepo)
		repo.On("Insert", mock.Anything, userID, input, true).Return(stored, nil).Once()
		repo.On("CountForUser", mock.Anything, userID).Return(int64(5), nil).Once()

		prefs := new(MockPreferenceUpdater)
		prefs.On("ApplyRating", mock.Anything, userID, "place", 5, &category).
			Return(&models.UserPreference{ID: uuid.New()}, nil).Once()

		insights := new(MockInsightGenerator)
		insights.On("GenerateFromFeedback", mock.Anything, userID).
			Return(0, errors.New("analysis failed")).Once()

		svc := NewService(repo, prefs, insights, zap.NewNop())

		result, err := svc.Submit(ctx, userID, input)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, result.FeedbackID)
		assert.True(t, result.PreferenceUpdated)
		assert.Contains(t, result.InsightError, "analysis failed")
	})

	t.Run("missing user id", func(t *testing.T) {
		svc := NewService(new(MockFeedbackRepo), new(MockPreferenceUpdater), new(MockInsightGenerator), zap.NewNop())

		result, err := svc.Submit(ctx, uuid.Nil, input)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("insert failure", func(t *testing.T) {
		repo := new(MockFeedbackRepo)
		repo.On("Insert", mock.Anything, userID, input, true).
			Return(nil, errors.New("insert failed")).Once()

		svc := NewService(repo, new(MockPreferenceUpdater), new(MockInsightGenerator), zap.NewNop())

		result, err := svc.Submit(ctx, userID, input)
		assert.Nil(t, result)
		assert.Error(t, err)
	})
}

func TestListForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		expected := []*models.UserFeedback{{ID: uuid.New(), UserID: userID}}
		repo := new(MockFeedbackRepo)
		repo.On("ListForUser", mock.Anything, userID).Return(expected, nil).Once()

		svc := NewService(repo, new(MockPreferenceUpdater), new(MockInsightGenerator), zap.NewNop())

		list, err := svc.ListForUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, expected, list)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockFeedbackRepo)
		repo.On("ListForUser", mock.Anything, userID).Return(nil, errors.New("db down")).Once()

		svc := NewService(repo, new(MockPreferenceUpdater), new(MockInsightGenerator), zap.NewNop())

		list, err := svc.ListForUser(ctx, userID)
		assert.Error(t, err)
		assert.Nil(t, list)
	})
}
