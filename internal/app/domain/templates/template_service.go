package templates

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

// TripPlanner instantiates trips and itinerary items. The trips service
// satisfies this.
type TripPlanner interface {
	CreateTrip(ctx context.Context, userID uuid.UUID, in models.CreateTripInput) (*models.Trip, error)
	AddItineraryItem(ctx context.Context, userID, tripID uuid.UUID, in models.CreateItineraryItemInput) (*models.ItineraryItem, error)
}

type Service interface {
	List(ctx context.Context) ([]*models.TripTemplate, error)
	GetByID(ctx context.Context, templateID uuid.UUID) (*models.TripTemplate, error)
	Apply(ctx context.Context, userID, templateID uuid.UUID, in models.ApplyTemplateInput) (*models.Trip, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	trips  TripPlanner
}

func NewServiceImpl(repo Repository, trips TripPlanner, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		trips:  trips,
	}
}

func (s *ServiceImpl) List(ctx context.Context) ([]*models.TripTemplate, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) GetByID(ctx context.Context, templateID uuid.UUID) (*models.TripTemplate, error) {
	return s.repo.GetByID(ctx, templateID)
}

// Apply instantiates a template into a real trip for the user. The trip's end
// date is derived from the template length, and the skeleton's activities are
// copied onto the trip's days in order.
func (s *ServiceImpl) Apply(ctx context.Context, userID, templateID uuid.UUID, in models.ApplyTemplateInput) (*models.Trip, error) {
	ctx, span := otel.Tracer("TemplateService").Start(ctx, "Apply", trace.WithAttributes(
		attribute.String("template.id", templateID.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Apply"),
		zap.String("userID", userID.String()), zap.String("templateID", templateID.String()))

	tpl, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Template fetch failed")
		return nil, err
	}
	if tpl.Days < 1 {
		span.SetStatus(codes.Error, "Template has no days")
		return nil, fmt.Errorf("template %s has an empty day range: %w", templateID, models.ErrValidation)
	}

	name := tpl.Name
	if in.Name != nil && *in.Name != "" {
		name = *in.Name
	}
	currency := ""
	if in.Currency != nil {
		currency = *in.Currency
	}

	createInput := models.CreateTripInput{
		Name:        name,
		Destination: tpl.Destination,
		CountryCode: tpl.CountryCode,
		StartDate:   in.StartDate,
		EndDate:     in.StartDate.AddDate(0, 0, tpl.Days-1),
		Budget:      in.Budget,
		Currency:    currency,
	}

	trip, err := s.trips.CreateTrip(ctx, userID, createInput)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Trip creation failed")
		return nil, err
	}

	for _, activity := range tpl.Itinerary {
		item := models.CreateItineraryItemInput{
			DayIndex:  activity.DayIndex,
			Title:     activity.Title,
			StartTime: activity.StartTime,
			Duration:  activity.Duration,
			Notes:     activity.Notes,
		}
		if _, err := s.trips.AddItineraryItem(ctx, userID, trip.ID, item); err != nil {
			l.Error("Failed to copy template activity", zap.Error(err),
				zap.String("tripID", trip.ID.String()), zap.String("title", activity.Title))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Activity copy failed")
			return nil, fmt.Errorf("failed to copy template activity %q: %w", activity.Title, err)
		}
	}

	l.Info("Template applied", zap.String("tripID", trip.ID.String()), zap.Int("activities", len(tpl.Itinerary)))
	span.SetAttributes(attribute.String("trip.id", trip.ID.String()))
	span.SetStatus(codes.Ok, "Template applied")
	return trip, nil
}
