package trips

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

// Service owns trip planning rules: date validation, trip length derivation
// and ownership checks for itinerary access.
type Service interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, in models.CreateTripInput) (*models.Trip, error)
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error)
	ListTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params models.UpdateTripParams) (*models.Trip, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error

	AddItineraryItem(ctx context.Context, userID, tripID uuid.UUID, in models.CreateItineraryItemInput) (*models.ItineraryItem, error)
	ListItineraryItems(ctx context.Context, userID, tripID uuid.UUID) ([]*models.ItineraryItem, error)
	UpdateItineraryItem(ctx context.Context, userID, tripID, itemID uuid.UUID, params models.UpdateItineraryItemParams) (*models.ItineraryItem, error)
	DeleteItineraryItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, userID uuid.UUID, in models.CreateTripInput) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("trip.destination", in.Destination),
	))
	defer span.End()

	if in.EndDate.Before(in.StartDate) {
		span.SetStatus(codes.Error, "Invalid date range")
		return nil, fmt.Errorf("end date precedes start date: %w", models.ErrValidation)
	}

	days := models.TripDays(in.StartDate, in.EndDate)
	trip, err := s.repo.CreateTrip(ctx, userID, in, days)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip creation failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("trip.days", days))
	span.SetStatus(codes.Ok, "Trip created")
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	return s.repo.GetTrip(ctx, userID, tripID)
}

func (s *ServiceImpl) ListTrips(ctx context.Context, userID uuid.UUID) ([]*models.Trip, error) {
	return s.repo.ListTrips(ctx, userID)
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, params models.UpdateTripParams) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip")
	defer span.End()

	// Changing either date recomputes the trip length, falling back to the
	// stored date for the side that is not changing.
	var days *int
	if params.StartDate != nil || params.EndDate != nil {
		current, err := s.repo.GetTrip(ctx, userID, tripID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Trip fetch failed")
			return nil, err
		}

		start := current.StartDate
		end := current.EndDate
		if params.StartDate != nil {
			start = *params.StartDate
		}
		if params.EndDate != nil {
			end = *params.EndDate
		}
		if end.Before(start) {
			span.SetStatus(codes.Error, "Invalid date range")
			return nil, fmt.Errorf("end date precedes start date: %w", models.ErrValidation)
		}
		d := models.TripDays(start, end)
		days = &d
	}

	trip, err := s.repo.UpdateTrip(ctx, userID, tripID, params, days)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip update failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Trip updated")
	return trip, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	return s.repo.DeleteTrip(ctx, userID, tripID)
}

// ownedTrip asserts the trip exists and belongs to the user before any
// itinerary mutation touches its child rows.
func (s *ServiceImpl) ownedTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error) {
	return s.repo.GetTrip(ctx, userID, tripID)
}

func (s *ServiceImpl) AddItineraryItem(ctx context.Context, userID, tripID uuid.UUID, in models.CreateItineraryItemInput) (*models.ItineraryItem, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AddItineraryItem")
	defer span.End()

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	if in.DayIndex < 1 || in.DayIndex > trip.Days {
		span.SetStatus(codes.Error, "Day index out of range")
		return nil, fmt.Errorf("day index %d outside trip length %d: %w", in.DayIndex, trip.Days, models.ErrValidation)
	}

	item, err := s.repo.AddItineraryItem(ctx, tripID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary insert failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary item added")
	return item, nil
}

func (s *ServiceImpl) ListItineraryItems(ctx context.Context, userID, tripID uuid.UUID) ([]*models.ItineraryItem, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListItineraryItems")
	defer span.End()

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	items, err := s.repo.ListItineraryItems(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary list failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary items listed")
	return items, nil
}

func (s *ServiceImpl) UpdateItineraryItem(ctx context.Context, userID, tripID, itemID uuid.UUID, params models.UpdateItineraryItemParams) (*models.ItineraryItem, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateItineraryItem")
	defer span.End()

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	if params.DayIndex != nil && (*params.DayIndex < 1 || *params.DayIndex > trip.Days) {
		span.SetStatus(codes.Error, "Day index out of range")
		return nil, fmt.Errorf("day index %d outside trip length %d: %w", *params.DayIndex, trip.Days, models.ErrValidation)
	}

	item, err := s.repo.UpdateItineraryItem(ctx, tripID, itemID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary update failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Itinerary item updated")
	return item, nil
}

func (s *ServiceImpl) DeleteItineraryItem(ctx context.Context, userID, tripID, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteItineraryItem")
	defer span.End()

	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return err
	}

	if err := s.repo.DeleteItineraryItem(ctx, tripID, itemID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Itinerary delete failed")
		return err
	}
	span.SetStatus(codes.Ok, "Itinerary item deleted")
	return nil
}
