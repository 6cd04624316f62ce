package models

import (
	"time"

	"github.com/google/uuid"
)

// PackingItem is one checklist entry on a trip.
type PackingItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TripID    uuid.UUID `json:"trip_id" db:"trip_id"`
	Name      string    `json:"name" db:"name"`
	Category  *string   `json:"category,omitempty" db:"category"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Packed    bool      `json:"packed" db:"packed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreatePackingItemInput is the request body for adding a checklist item.
type CreatePackingItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Category *string `json:"category,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
}

// PackingProgress summarizes how much of a trip's checklist is packed.
type PackingProgress struct {
	TripID  uuid.UUID `json:"trip_id"`
	Total   int       `json:"total"`
	Packed  int       `json:"packed"`
	Percent float64   `json:"percent"`
}
