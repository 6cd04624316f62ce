package trips

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) CreateTrip(ctx context.Context, userID uuid.UUID, in models.CreateTripInput, days int) (*models.Trip, error) {
	args := m.Called(ctx, userID, in, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	args := m.Called(ctx, userID, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) ListTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trip), args.Error(1)
}

func (m *MockTripRepo) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params models.UpdateTripParams, days *int) (*models.Trip, error) {
	args := m.Called(ctx, userID, tripID, params, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	args := m.Called(ctx, userID, tripID)
	return args.Error(0)
}

func (m *MockTripRepo) AddItineraryItem(ctx context.Context, tripID uuid.UUID, in models.CreateItineraryItemInput) (*models.ItineraryItem, error) {
	args := m.Called(ctx, tripID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItineraryItem), args.Error(1)
}

func (m *MockTripRepo) ListItineraryItems(ctx context.Context, tripID uuid.UUID) ([]*models.ItineraryItem, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ItineraryItem), args.Error(1)
}

func (m *MockTripRepo) UpdateItineraryItem(ctx context.Context, tripID, itemID uuid.UUID, params models.UpdateItineraryItemParams) (*models.ItineraryItem, error) {
	args := m.Called(ctx, tripID, itemID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItineraryItem), args.Error(1)
}

func (m *MockTripRepo) DeleteItineraryItem(ctx context.Context, tripID, itemID uuid.UUID) error {
	args := m.Called(ctx, tripID, itemID)
	return args.Error(0)
}

func tripDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("derives inclusive day count", func(t *testing.T) {
		in := models.CreateTripInput{
			Name:        "Lisbon long weekend",
			Destination: "Lisbon",
			StartDate:   tripDate(2026, time.September, 4),
			EndDate:     tripDate(2026, time.September, 7),
		}

		repo := new(MockTripRepo)
		repo.On("CreateTrip", mock.Anything, userID, in, 4).
			Return(&models.Trip{ID: uuid.New(), UserID: userID, Days: 4}, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		trip, err := svc.CreateTrip(ctx, userID, in)
		require.NoError(t, err)
		assert.Equal(t, 4, trip.Days)
		repo.AssertExpectations(t)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		in := models.CreateTripInput{
			Name:        "Backwards",
			Destination: "Lisbon",
			StartDate:   tripDate(2026, time.September, 7),
			EndDate:     tripDate(2026, time.September, 4),
		}

		repo := new(MockTripRepo)
		svc := NewServiceImpl(repo, zap.NewNop())

		trip, err := svc.CreateTrip(ctx, userID, in)
		assert.Nil(t, trip)
		assert.ErrorIs(t, err, models.ErrValidation)
		repo.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateTrip(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	current := &models.Trip{
		ID:        tripID,
		UserID:    userID,
		StartDate: tripDate(2026, time.September, 4),
		EndDate:   tripDate(2026, time.September, 7),
		Days:      4,
	}

	t.Run("changing the end date recomputes days", func(t *testing.T) {
		newEnd := tripDate(2026, time.September, 10)
		params := models.UpdateTripParams{EndDate: &newEnd}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(current, nil).Once()
		repo.On("UpdateTrip", mock.Anything, userID, tripID, params, mock.MatchedBy(func(days *int) bool {
			return days != nil && *days == 7
		})).Return(&models.Trip{ID: tripID, Days: 7}, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		trip, err := svc.UpdateTrip(ctx, userID, tripID, params)
		require.NoError(t, err)
		assert.Equal(t, 7, trip.Days)
		repo.AssertExpectations(t)
	})

	t.Run("date-free update skips the fetch", func(t *testing.T) {
		name := "Renamed"
		params := models.UpdateTripParams{Name: &name}

		repo := new(MockTripRepo)
		repo.On("UpdateTrip", mock.Anything, userID, tripID, params, (*int)(nil)).
			Return(&models.Trip{ID: tripID, Name: name}, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		_, err := svc.UpdateTrip(ctx, userID, tripID, params)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "GetTrip", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inverted range is rejected against stored dates", func(t *testing.T) {
		badStart := tripDate(2026, time.September, 20)
		params := models.UpdateTripParams{StartDate: &badStart}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(current, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		trip, err := svc.UpdateTrip(ctx, userID, tripID, params)
		assert.Nil(t, trip)
		assert.ErrorIs(t, err, models.ErrValidation)
		repo.AssertNotCalled(t, "UpdateTrip", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAddItineraryItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	trip := &models.Trip{ID: tripID, UserID: userID, Days: 3}

	t.Run("valid day index", func(t *testing.T) {
		in := models.CreateItineraryItemInput{DayIndex: 2, Title: "Tram 28"}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(trip, nil).Once()
		repo.On("AddItineraryItem", mock.Anything, tripID, in).
			Return(&models.ItineraryItem{ID: uuid.New(), TripID: tripID, DayIndex: 2}, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		item, err := svc.AddItineraryItem(ctx, userID, tripID, in)
		require.NoError(t, err)
		assert.Equal(t, 2, item.DayIndex)
		repo.AssertExpectations(t)
	})

	t.Run("day index beyond trip length", func(t *testing.T) {
		in := models.CreateItineraryItemInput{DayIndex: 4, Title: "Too late"}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(trip, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		item, err := svc.AddItineraryItem(ctx, userID, tripID, in)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, models.ErrValidation)
		repo.AssertNotCalled(t, "AddItineraryItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign trip stays invisible", func(t *testing.T) {
		in := models.CreateItineraryItemInput{DayIndex: 1, Title: "Sneaky"}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).
			Return(nil, models.ErrNotFound).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		item, err := svc.AddItineraryItem(ctx, userID, tripID, in)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUpdateItineraryItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	itemID := uuid.New()
	trip := &models.Trip{ID: tripID, UserID: userID, Days: 3}

	t.Run("day index move is bounds checked", func(t *testing.T) {
		day := 5
		params := models.UpdateItineraryItemParams{DayIndex: &day}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(trip, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		item, err := svc.UpdateItineraryItem(ctx, userID, tripID, itemID, params)
		assert.Nil(t, item)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("title-only update passes through", func(t *testing.T) {
		title := "Alfama walk"
		params := models.UpdateItineraryItemParams{Title: &title}

		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).Return(trip, nil).Once()
		repo.On("UpdateItineraryItem", mock.Anything, tripID, itemID, params).
			Return(&models.ItineraryItem{ID: itemID, Title: title}, nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		item, err := svc.UpdateItineraryItem(ctx, userID, tripID, itemID, params)
		require.NoError(t, err)
		assert.Equal(t, title, item.Title)
	})
}

func TestDeleteItineraryItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	tripID := uuid.New()
	itemID := uuid.New()

	t.Run("ownership failure blocks the delete", func(t *testing.T) {
		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).
			Return(nil, models.ErrNotFound).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		err := svc.DeleteItineraryItem(ctx, userID, tripID, itemID)
		assert.ErrorIs(t, err, models.ErrNotFound)
		repo.AssertNotCalled(t, "DeleteItineraryItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete after ownership check", func(t *testing.T) {
		repo := new(MockTripRepo)
		repo.On("GetTrip", mock.Anything, userID, tripID).
			Return(&models.Trip{ID: tripID, UserID: userID, Days: 2}, nil).Once()
		repo.On("DeleteItineraryItem", mock.Anything, tripID, itemID).Return(nil).Once()

		svc := NewServiceImpl(repo, zap.NewNop())

		require.NoError(t, svc.DeleteItineraryItem(ctx, userID, tripID, itemID))
		repo.AssertExpectations(t)
	})
}
