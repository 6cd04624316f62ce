package models

import (
	"time"

	"github.com/google/uuid"
)

// Place is a discoverable point of interest.
type Place struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description *string   `json:"description,omitempty" db:"description"`
	CountryCode string    `json:"country_code" db:"country_code"`
	City        *string   `json:"city,omitempty" db:"city"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	Rating      float64   `json:"rating" db:"rating"`
	PriceLevel  *int      `json:"price_level,omitempty" db:"price_level"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PlaceFilter holds the dynamic discovery filters. Zero values mean the
// filter is not applied.
type PlaceFilter struct {
	SearchText  string  `form:"search"`
	Category    string  `form:"category"`
	CountryCode string  `form:"country"`
	City        string  `form:"city"`
	MinRating   float64 `form:"min_rating"`
	SortBy      string  `form:"sort_by"`
	Limit       int     `form:"limit"`
	Offset      int     `form:"offset"`
}

// Country is a reference row for the country picker.
type Country struct {
	Code   string `json:"code" db:"code"`
	Name   string `json:"name" db:"name"`
	Region string `json:"region" db:"region"`
}
