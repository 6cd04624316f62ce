package budget

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

type MockBudgetRepo struct {
	mock.Mock
}

func (m *MockBudgetRepo) Insert(ctx context.Context, tripID uuid.UUID, in models.CreateBudgetEntryInput) (*models.BudgetEntry, error) {
	args := m.Called(ctx, tripID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetEntry), args.Error(1)
}

func (m *MockBudgetRepo) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.BudgetEntry, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BudgetEntry), args.Error(1)
}

func (m *MockBudgetRepo) Delete(ctx context.Context, tripID, entryID uuid.UUID) error {
	args := m.Called(ctx, tripID, entryID)
	return args.Error(0)
}

func (m *MockBudgetRepo) CategoryTotals(ctx context.Context, tripID uuid.UUID) (map[string]float64, int, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(map[string]float64), args.Int(1), args.Error(2)
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

func TestRecord(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	input := models.CreateBudgetEntryInput{Category: "food", Amount: 24.50}

	t.Run("records after ownership check", func(t *testing.T) {
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(&models.Trip{ID: tripID, UserID: userID}, nil).Once()

		repo := new(MockBudgetRepo)
		repo.On("Insert", mock.Anything, tripID, input).
			Return(&models.BudgetEntry{ID: uuid.New(), TripID: tripID, Category: "food", Amount: 24.50}, nil).Once()

		svc := NewServiceImpl(repo, guard, zap.NewNop())

		entry, err := svc.Record(ctx, userID, tripID, input)
		require.NoError(t, err)
		assert.Equal(t, "food", entry.Category)
		guard.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("foreign trip is invisible", func(t *testing.T) {
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(nil, models.ErrNotFound).Once()

		repo := new(MockBudgetRepo)
		svc := NewServiceImpl(repo, guard, zap.NewNop())

		entry, err := svc.Record(ctx, userID, tripID, input)
		assert.Nil(t, entry)
		assert.ErrorIs(t, err, models.ErrNotFound)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()

	t.Run("computes remaining against the planned budget", func(t *testing.T) {
		budget := 500.0
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(&models.Trip{ID: tripID, UserID: userID, Budget: &budget}, nil).Once()

		repo := new(MockBudgetRepo)
		repo.On("CategoryTotals", mock.Anything, tripID).
			Return(map[string]float64{"food": 120.0, "transport": 80.0}, 7, nil).Once()

		svc := NewServiceImpl(repo, guard, zap.NewNop())

		summary, err := svc.Summary(ctx, userID, tripID)
		require.NoError(t, err)
		assert.InDelta(t, 200.0, summary.TotalSpent, 0.001)
		require.NotNil(t, summary.Remaining)
		assert.InDelta(t, 300.0, *summary.Remaining, 0.001)
		assert.Equal(t, 7, summary.Entries)
	})

	t.Run("no planned budget leaves remaining unset", func(t *testing.T) {
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(&models.Trip{ID: tripID, UserID: userID}, nil).Once()

		repo := new(MockBudgetRepo)
		repo.On("CategoryTotals", mock.Anything, tripID).
			Return(map[string]float64{"food": 45.0}, 2, nil).Once()

		svc := NewServiceImpl(repo, guard, zap.NewNop())

		summary, err := svc.Summary(ctx, userID, tripID)
		require.NoError(t, err)
		assert.InDelta(t, 45.0, summary.TotalSpent, 0.001)
		assert.Nil(t, summary.Remaining)
	})

	t.Run("aggregation failure", func(t *testing.T) {
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(&models.Trip{ID: tripID, UserID: userID}, nil).Once()

		repo := new(MockBudgetRepo)
		repo.On("CategoryTotals", mock.Anything, tripID).
			Return(nil, 0, errors.New("db down")).Once()

		svc := NewServiceImpl(repo, guard, zap.NewNop())

		summary, err := svc.Summary(ctx, userID, tripID)
		assert.Nil(t, summary)
		assert.Error(t, err)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	entryID := uuid.New()

	t.Run("not found propagates", func(t *testing.T) {
		guard := new(MockTripGuard)
		guard.On("GetTrip", mock.Anything, userID, tripID).
			Return(&models.Trip{ID: tripID, UserID: userID}, nil).Once()

		repo := new(MockBudgetRepo)
		repo.On("Delete", mock.Anything, tripID, entryID).Return(models.ErrNotFound).Once()

		svc := NewServiceImpl(repo, guard, zap.NewNop())

		assert.ErrorIs(t, svc.Delete(ctx, userID, tripID, entryID), models.ErrNotFound)
	})
}
