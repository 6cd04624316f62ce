package models

import (
	"time"

	"github.com/google/uuid"
)

// BudgetEntry is one expense recorded against a trip.
type BudgetEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TripID    uuid.UUID `json:"trip_id" db:"trip_id"`
	Category  string    `json:"category" db:"category"`
	Amount    float64   `json:"amount" db:"amount"`
	Note      *string   `json:"note,omitempty" db:"note"`
	SpentAt   time.Time `json:"spent_at" db:"spent_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateBudgetEntryInput is the request body for recording an expense.
type CreateBudgetEntryInput struct {
	Category string     `json:"category" binding:"required"`
	Amount   float64    `json:"amount" binding:"required,gt=0"`
	Note     *string    `json:"note,omitempty"`
	SpentAt  *time.Time `json:"spent_at,omitempty"`
}

// BudgetSummary aggregates a trip's expenses against its planned budget.
type BudgetSummary struct {
	TripID     uuid.UUID          `json:"trip_id"`
	Budget     *float64           `json:"budget,omitempty"`
	TotalSpent float64            `json:"total_spent"`
	Remaining  *float64           `json:"remaining,omitempty"`
	ByCategory map[string]float64 `json:"by_category"`
	Entries    int                `json:"entries"`
}
