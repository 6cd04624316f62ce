package models

import (
	"time"

	"github.com/google/uuid"
)

// TripTemplate is a curated trip skeleton that can be instantiated into a
// real trip for a user.
type TripTemplate struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	Name        string             `json:"name" db:"name"`
	Destination string             `json:"destination" db:"destination"`
	CountryCode *string            `json:"country_code,omitempty" db:"country_code"`
	Days        int                `json:"days" db:"days"`
	Description *string            `json:"description,omitempty" db:"description"`
	Itinerary   []TemplateActivity `json:"itinerary" db:"itinerary"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
}

// TemplateActivity is one entry of a template's itinerary skeleton, stored as
// a JSONB array on the template row.
type TemplateActivity struct {
	DayIndex  int     `json:"day_index"`
	Title     string  `json:"title"`
	StartTime *string `json:"start_time,omitempty"`
	Duration  *int    `json:"duration_min,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ApplyTemplateInput is the request body for instantiating a template.
type ApplyTemplateInput struct {
	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	Name      *string   `json:"name,omitempty"`
	Budget    *float64  `json:"budget,omitempty"`
	Currency  *string   `json:"currency,omitempty"`
}
