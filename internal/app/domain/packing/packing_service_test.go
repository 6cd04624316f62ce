package packing

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

type MockPackingRepo struct {
	mock.Mock
}

func (m *MockPackingRepo) Insert(ctx context.Context, tripID uuid.UUID, in models.CreatePackingItemInput) (*models.PackingItem, error) {
	args := m.Called(ctx, tripID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackingItem), args.Error(1)
}

func (m *MockPackingRepo) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.PackingItem, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PackingItem), args.Error(1)
}

func (m *MockPackingRepo) TogglePacked(ctx context.Context, tripID, itemID uuid.UUID) (*models.PackingItem, error) {
	args := m.Called(ctx, tripID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PackingItem), args.Error(1)
}

func (m *MockPackingRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	args := m.Called(ctx, tripID, itemID)
	return args.Error(0)
}

func (m *MockPackingRepo) Progress(ctx context.Context, tripID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockTripGuard struct {
	mock.Mock
}

func (m *MockTripGuard) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func ownedGuard(userID, tripID uuid.UUID) *MockTripGuard {
	guard := new(MockTripGuard)
	guard.On("GetTrip", mock.Anything, userID, tripID).
		Return(&models.Trip{ID: tripID, UserID: userID}, nil)
	return guard
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	input := models.CreatePackingItemInput{Name: "Rain jacket", Quantity: 1}

	t.Run("adds after ownership check", func(t *testing.T) {
		repo := new(MockPackingRepo)
		repo.On("Insert", mock.Anything, tripID, input).
			Return(&models.PackingItem{ID: uuid.New(), TripID: tripID, Name: "Rain jacket"}, nil).Once()

		svc := NewServiceImpl(repo, ownedGuard(userID, tripID), zap.NewNop())

		item, err := svc.Add(ctx, userID, tripID, input)
		require.NoError(t, err)
		assert.Equal(t, "Rain jacket", item.Name)
	})

	t.Run("foreign trip is invisible", func(t *testing.T) {
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(nil, models.ErrNotFound).Once()

		repo := new(MockPackingRepo)
		svc := NewServiceImpl(repo, guard, zap.NewNop())

		item, err := svc.Add(ctx, userID, tripID, input)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, models.ErrNotFound)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTogglePacked(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	itemID := uuid.New()

	repo := new(MockPackingRepo)
	repo.On("TogglePacked", mock.Anything, tripID, itemID).
		Return(&models.PackingItem{ID: itemID, TripID: tripID, Packed: true}, nil).Once()

	svc := NewServiceImpl(repo, ownedGuard(userID, tripID), zap.NewNop())

	item, err := svc.TogglePacked(ctx, userID, tripID, itemID)
	require.NoError(t, err)
	assert.True(t, item.Packed)
	repo.AssertExpectations(t)
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	t.Run("computes percent", func(t *testing.T) {
		repo := new(MockPackingRepo)
		repo.On("Progress", mock.Anything, tripID).Return(8, 6, nil).Once()

		svc := NewServiceImpl(repo, ownedGuard(userID, tripID), zap.NewNop())

		progress, err := svc.Progress(ctx, userID, tripID)
		require.NoError(t, err)
		assert.Equal(t, 8, progress.Total)
		assert.Equal(t, 6, progress.Packed)
		assert.InDelta(t, 75.0, progress.Percent, 0.001)
	})

	t.Run("empty checklist avoids division by zero", func(t *testing.T) {
		repo := new(MockPackingRepo)
		repo.On("Progress", mock.Anything, tripID).Return(0, 0, nil).Once()

		svc := NewServiceImpl(repo, ownedGuard(userID, tripID), zap.NewNop())

		progress, err := svc.Progress(ctx, userID, tripID)
		require.NoError(t, err)
		assert.Zero(t, progress.Percent)
	})

	t.Run("query failure", func(t *testing.T) {
		repo := new(MockPackingRepo)
		repo.On("Progress", mock.Anything, tripID).Return(0, 0, errors.New("db down")).Once()

		svc := NewServiceImpl(repo, ownedGuard(userID, tripID), zap.NewNop())

		progress, err := svc.Progress(ctx, userID, tripID)
		assert.Nil(t, progress)
		assert.Error(t, err)
	})
}
