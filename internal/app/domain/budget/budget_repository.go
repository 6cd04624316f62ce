package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
	database "github.com/ngandinhtk/tripwise/internal/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository persists per-trip expenses.
type Repository interface {
	Insert(ctx context.Context, tripID uuid.UUID, in models.CreateBudgetEntryInput) (*models.BudgetEntry, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.BudgetEntry, error)
	Delete(ctx context.Context, tripID, entryID uuid.UUID) error
	CategoryTotals(ctx context.Context, tripID uuid.UUID) (map[string]float64, int, error)
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool database.Querier
}

func NewRepositoryImpl(pgpool database.Querier, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) Insert(ctx context.Context, tripID uuid.UUID, in models.CreateBudgetEntryInput) (*models.BudgetEntry, error) {
	ctx, span := otel.Tracer("BudgetRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "budget_entries"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	spentAt := time.Now()
	if in.SpentAt != nil {
		spentAt = *in.SpentAt
	}

	var entry models.BudgetEntry
	query := `
        INSERT INTO budget_entries (trip_id, category, amount, note, spent_at, created_at)
        VALUES ($1, $2, $3, $4, $5, Now())
        RETURNING id, trip_id, category, amount, note, spent_at, created_at`

	err := r.pgpool.QueryRow(ctx, query, tripID, in.Category, in.Amount, in.Note, spentAt).Scan(
		&entry.ID, &entry.TripID, &entry.Category, &entry.Amount, &entry.Note, &entry.SpentAt, &entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert budget entry", zap.Error(err), zap.String("tripID", tripID.String()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error recording expense: %w", err)
	}

	span.SetStatus(codes.Ok, "Expense recorded")
	return &entry, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]*models.BudgetEntry, error) {
	ctx, span := otel.Tracer("BudgetRepo").Start(ctx, "ListForTrip", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "budget_entries"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        SELECT id, trip_id, category, amount, note, spent_at, created_at
        FROM budget_entries
        WHERE trip_id = $1
        ORDER BY spent_at DESC`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing expenses: %w", err)
	}
	defer rows.Close()

	var entries []*models.BudgetEntry
	for rows.Next() {
		var entry models.BudgetEntry
		if err := rows.Scan(&entry.ID, &entry.TripID, &entry.Category, &entry.Amount, &entry.Note, &entry.SpentAt, &entry.CreatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning expense: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating expenses: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows.count", len(entries)))
	span.SetStatus(codes.Ok, "Expenses listed")
	return entries, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, tripID, entryID uuid.UUID) error {
	ctx, span := otel.Tracer("BudgetRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "budget_entries"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM budget_entries WHERE id = $1 AND trip_id = $2`, entryID, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Expense not found")
		return fmt.Errorf("expense %s not found: %w", entryID, models.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Expense deleted")
	return nil
}

func (r *RepositoryImpl) CategoryTotals(ctx context.Context, tripID uuid.UUID) (map[string]float64, int, error) {
	ctx, span := otel.Tracer("BudgetRepo").Start(ctx, "CategoryTotals", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "budget_entries"),
		attribute.String("db.trip.id", tripID.String()),
	))
	defer span.End()

	query := `
        SELECT category, SUM(amount), COUNT(*)
        FROM budget_entries
        WHERE trip_id = $1
        GROUP BY category`

	rows, err := r.pgpool.Query(ctx, query, tripID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, 0, fmt.Errorf("database error aggregating expenses: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	entries := 0
	for rows.Next() {
		var category string
		var sum float64
		var count int
		if err := rows.Scan(&category, &sum, &count); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, 0, fmt.Errorf("database error scanning expense totals: %w", err)
		}
		totals[category] = sum
		entries += count
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, 0, fmt.Errorf("database error iterating expense totals: %w", err)
	}

	span.SetStatus(codes.Ok, "Expenses aggregated")
	return totals, entries, nil
}
