package preferences

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

type MockPreferenceRepo struct {
	mock.Mock
}

func (m *MockPreferenceRepo) Upsert(ctx context.Context, userID uuid.UUID, key string, target float64) (*models.UserPreference, error) {
	args := m.Called(ctx, userID, key, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreference), args.Error(1)
}

func (m *MockPreferenceRepo) GetByKey(ctx context.Context, userID uuid.UUID, key string) (*models.UserPreference, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserPreference), args.Error(1)
}

func (m *MockPreferenceRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.UserPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserPreference), args.Error(1)
}

func TestApplyRating(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	category := "food"

	t.Run("composes key and converts rating", func(t *testing.T) {
		repo := new(MockPreferenceRepo)
		repo.On("Upsert", mock.Anything, userID, "place_food", 100.0).
			Return(&models.UserPreference{ID: uuid.New(), Key: "place_food", Score: 100, Frequency: 1}, nil).Once()

		svc := NewService(repo, zap.NewNop())

		pref, err := svc.ApplyRating(ctx, userID, "place", 5, &category)
		require.NoError(t, err)
		assert.Equal(t, "place_food", pref.Key)
		repo.AssertExpectations(t)
	})

	t.Run("missing category keys on item type alone", func(t *testing.T) {
		repo := new(MockPreferenceRepo)
		repo.On("Upsert", mock.Anything, userID, "place", 60.0).
			Return(&models.UserPreference{ID: uuid.New(), Key: "place"}, nil).Once()

		svc := NewService(repo, zap.NewNop())

		_, err := svc.ApplyRating(ctx, userID, "place", 3, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty item type", func(t *testing.T) {
		svc := NewService(new(MockPreferenceRepo), zap.NewNop())

		pref, err := svc.ApplyRating(ctx, userID, "", 4, &category)
		assert.Nil(t, pref)
		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockPreferenceRepo)
		repo.On("Upsert", mock.Anything, userID, "place_food", 20.0).
			Return(nil, errors.New("db down")).Once()

		svc := NewService(repo, zap.NewNop())

		pref, err := svc.ApplyRating(ctx, userID, "place", 1, &category)
		assert.Nil(t, pref)
		assert.Error(t, err)
	})
}
