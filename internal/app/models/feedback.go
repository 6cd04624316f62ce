package models

import (
	"time"

	"github.com/google/uuid"
)

// HelpfulRatingThreshold marks a rating as a positive signal.
const HelpfulRatingThreshold = 4

// UserFeedback is a user-submitted rating tied to an item. Append-only.
type UserFeedback struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TripID    *uuid.UUID `json:"trip_id,omitempty" db:"trip_id"`
	ItemID    *string    `json:"item_id,omitempty" db:"item_id"`
	ItemType  string     `json:"item_type" db:"item_type"`
	Rating    int        `json:"rating" db:"rating"`
	Comment   *string    `json:"comment,omitempty" db:"comment"`
	Category  *string    `json:"category,omitempty" db:"category"`
	Helpful   bool       `json:"helpful" db:"helpful"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// SubmitFeedbackInput is the request body for submitting feedback. The rating
// range is enforced at the binding layer, mirroring the client-side check.
type SubmitFeedbackInput struct {
	ItemType string     `json:"item_type" binding:"required"`
	Rating   int        `json:"rating" binding:"required,min=1,max=5"`
	Comment  *string    `json:"comment,omitempty"`
	TripID   *uuid.UUID `json:"trip_id,omitempty"`
	ItemID   *string    `json:"item_id,omitempty"`
	Category *string    `json:"category,omitempty"`
}

// CategoryRatingStat is the per-category aggregate the insight generator
// works from.
type CategoryRatingStat struct {
	Category  string  `json:"category"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// SubmitFeedbackResult makes the write → preference → insight chain
// observable. The feedback row is durable once FeedbackID is set; the derived
// steps may still have failed, and those failures are carried as messages so
// callers can treat the submission as "saved, analytics partially failed".
type SubmitFeedbackResult struct {
	FeedbackID        uuid.UUID `json:"feedback_id"`
	PreferenceUpdated bool      `json:"preference_updated"`
	InsightsGenerated int       `json:"insights_generated"`
	PreferenceError   string    `json:"preference_error,omitempty"`
	InsightError      string    `json:"insight_error,omitempty"`
}
