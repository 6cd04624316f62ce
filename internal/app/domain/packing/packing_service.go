package packing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// TripGuard asserts trip ownership before any checklist operation.
type TripGuard interface {
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error)
}

type Service interface {
	Add(ctx context.Context, userID, tripID uuid.UUID, in models.CreatePackingItemInput) (*models.PackingItem, error)
	ListForTrip(ctx context.Context, userID, tripID uuid.UUID) ([]*models.PackingItem, error)
	TogglePacked(ctx context.Context, userID, tripID, itemID uuid.UUID) (*models.PackingItem, error)
	Delete(ctx context.Context, userID, tripID, itemID uuid.UUID) error
	Progress(ctx context.Context, userID, tripID uuid.UUID) (*models.PackingProgress, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	trips  TripGuard
}

func NewServiceImpl(repo Repository, trips TripGuard, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		trips:  trips,
	}
}

func (s *ServiceImpl) Add(ctx context.Context, userID, tripID uuid.UUID, in models.CreatePackingItemInput) (*models.PackingItem, error) {
	ctx, span := otel.Tracer("PackingService").Start(ctx, "Add")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	item, err := s.repo.Insert(ctx, tripID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Packing insert failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Packing item added")
	return item, nil
}

func (s *ServiceImpl) ListForTrip(ctx context.Context, userID, tripID uuid.UUID) ([]*models.PackingItem, error) {
	ctx, span := otel.Tracer("PackingService").Start(ctx, "ListForTrip")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	items, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Packing list failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Packing items listed")
	return items, nil
}

func (s *ServiceImpl) TogglePacked(ctx context.Context, userID, tripID, itemID uuid.UUID) (*models.PackingItem, error) {
	ctx, span := otel.Tracer("PackingService").Start(ctx, "TogglePacked")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	item, err := s.repo.TogglePacked(ctx, tripID, itemID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Toggle failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Packing item toggled")
	return item, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, tripID, itemID uuid.UUID) error {
	ctx, span := otel.Tracer("PackingService").Start(ctx, "Delete")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return err
	}

	if err := s.repo.Delete(ctx, tripID, itemID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Packing delete failed")
		return err
	}
	span.SetStatus(codes.Ok, "Packing item deleted")
	return nil
}

func (s *ServiceImpl) Progress(ctx context.Context, userID, tripID uuid.UUID) (*models.PackingProgress, error) {
	ctx, span := otel.Tracer("PackingService").Start(ctx, "Progress")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	total, packed, err := s.repo.Progress(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Progress query failed")
		return nil, err
	}

	progress := &models.PackingProgress{TripID: tripID, Total: total, Packed: packed}
	if total > 0 {
		progress.Percent = float64(packed) / float64(total) * 100
	}
	span.SetStatus(codes.Ok, "Progress computed")
	return progress, nil
}
