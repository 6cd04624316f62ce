package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a user-owned travel plan. Days is computed from the date range at
// creation and recomputed whenever the dates change.
type Trip struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Destination string    `json:"destination" db:"destination"`
	CountryCode *string   `json:"country_code,omitempty" db:"country_code"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Days        int       `json:"days" db:"days"`
	Budget      *float64  `json:"budget,omitempty" db:"budget"`
	Currency    string    `json:"currency" db:"currency"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CreateTripInput is the request body for creating a trip.
type CreateTripInput struct {
	Name        string    `json:"name" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	CountryCode *string   `json:"country_code,omitempty"`
	StartDate   time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate     time.Time `json:"end_date" binding:"required" time_format:"2006-01-02"`
	Budget      *float64  `json:"budget,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// UpdateTripParams holds optional trip fields for partial updates.
type UpdateTripParams struct {
	Name        *string    `json:"name,omitempty"`
	Destination *string    `json:"destination,omitempty"`
	CountryCode *string    `json:"country_code,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// TripDays returns the inclusive length of a date range in days.
func TripDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// ItineraryItem is one scheduled activity on a trip day.
type ItineraryItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TripID    uuid.UUID `json:"trip_id" db:"trip_id"`
	DayIndex  int       `json:"day_index" db:"day_index"`
	Position  int       `json:"position" db:"position"`
	Title     string    `json:"title" db:"title"`
	StartTime *string   `json:"start_time,omitempty" db:"start_time"`
	Duration  *int      `json:"duration_min,omitempty" db:"duration_min"`
	PlaceID   *uuid.UUID `json:"place_id,omitempty" db:"place_id"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateItineraryItemInput is the request body for adding an itinerary item.
type CreateItineraryItemInput struct {
	DayIndex  int        `json:"day_index" binding:"min=1"`
	Title     string     `json:"title" binding:"required"`
	StartTime *string    `json:"start_time,omitempty"`
	Duration  *int       `json:"duration_min,omitempty"`
	PlaceID   *uuid.UUID `json:"place_id,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// UpdateItineraryItemParams holds optional itinerary item fields.
type UpdateItineraryItemParams struct {
	DayIndex  *int    `json:"day_index,omitempty"`
	Position  *int    `json:"position,omitempty"`
	Title     *string `json:"title,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	Duration  *int    `json:"duration_min,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}
