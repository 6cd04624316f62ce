package models

import (
	"time"

	"github.com/google/uuid"
)

// Insight types produced by the analyzers.
const (
	InsightTypePattern    = "pattern"
	InsightTypeTrend      = "trend"
	InsightTypePrediction = "prediction"
)

// AIInsight is a derived, stored conclusion about a user. Insights are
// upserted by (user, type, subject) so repeated analysis refreshes the row
// instead of accumulating duplicates.
type AIInsight struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	InsightType string         `json:"insight_type" db:"insight_type"`
	Subject     string         `json:"subject" db:"subject"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Confidence  float64        `json:"confidence" db:"confidence"`
	Data        map[string]any `json:"data,omitempty" db:"data"`
	Actionable  bool           `json:"actionable" db:"actionable"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
