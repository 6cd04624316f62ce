package budget

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// TripGuard asserts trip ownership before any expense operation. The trips
// service satisfies this.
type TripGuard interface {
	GetTrip(ctx context.Context, userID, tripID uuid.UUID) (*models.Trip, error)
}

type Service interface {
	Record(ctx context.Context, userID, tripID uuid.UUID, in models.CreateBudgetEntryInput) (*models.BudgetEntry, error)
	ListForTrip(ctx context.Context, userID, tripID uuid.UUID) ([]*models.BudgetEntry, error)
	Delete(ctx context.Context, userID, tripID, entryID uuid.UUID) error
	Summary(ctx context.Context, userID, tripID uuid.UUID) (*models.BudgetSummary, error)
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

func (s *ServiceImpl) Record(ctx context.Context, userID, tripID uuid.UUID, in models.CreateBudgetEntryInput) (*models.BudgetEntry, error) {
	ctx, span := otel.Tracer("BudgetService").Start(ctx, "Record")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	entry, err := s.repo.Insert(ctx, tripID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Expense insert failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Expense recorded")
	return entry, nil
}

func (s *ServiceImpl) ListForTrip(ctx context.Context, userID, tripID uuid.UUID) ([]*models.BudgetEntry, error) {
	ctx, span := otel.Tracer("BudgetService").Start(ctx, "ListForTrip")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	entries, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Expense list failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Expenses listed")
	return entries, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, tripID, entryID uuid.UUID) error {
	ctx, span := otel.Tracer("BudgetService").Start(ctx, "Delete")
	defer span.End()

	if _, err := s.trips.GetTrip(ctx, userID, tripID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return err
	}

	if err := s.repo.Delete(ctx, tripID, entryID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Expense delete failed")
		return err
	}
	span.SetStatus(codes.Ok, "Expense deleted")
	return nil
}

func (s *ServiceImpl) Summary(ctx context.Context, userID, tripID uuid.UUID) (*models.BudgetSummary, error) {
	ctx, span := otel.Tracer("BudgetService").Start(ctx, "Summary")
	defer span.End()

	trip, err := s.trips.GetTrip(ctx, userID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}

	totals, entries, err := s.repo.CategoryTotals(ctx, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Expense aggregation failed")
		return nil, err
	}

	summary := &models.BudgetSummary{
		TripID:     tripID,
		Budget:     trip.Budget,
		ByCategory: totals,
		Entries:    entries,
	}
	for _, sum := range totals {
		summary.TotalSpent += sum
	}
	if trip.Budget != nil {
		remaining := *trip.Budget - summary.TotalSpent
		summary.Remaining = &remaining
	}

	span.SetAttributes(attribute.Float64("budget.total_spent", summary.TotalSpent))
	span.SetStatus(codes.Ok, "Budget summarized")
	return summary, nil
}
