package models

import (
	"time"

	"github.com/google/uuid"
)

// UserBehavior is one logged user action. Rows are append-only and feed the
// pattern analyzer; they are never mutated or deleted.
type UserBehavior struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"user_id" db:"user_id"`
	Action    string         `json:"action" db:"action"`
	Category  *string        `json:"category,omitempty" db:"category"`
	Value     *string        `json:"value,omitempty" db:"value"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// TrackBehaviorInput carries the caller-supplied fields of a behavior record.
type TrackBehaviorInput struct {
	Action   string         `json:"action" binding:"required"`
	Category *string        `json:"category,omitempty"`
	Value    *string        `json:"value,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// TrackBehaviorResult reports the durable write plus the outcome of the
// pattern analysis that follows it. The analysis can fail after the behavior
// row is already committed; that failure is surfaced here instead of undoing
// the write.
type TrackBehaviorResult struct {
	BehaviorID       uuid.UUID `json:"behavior_id"`
	PatternsDetected int       `json:"patterns_detected"`
	AnalysisError    string    `json:"analysis_error,omitempty"`
}
