package models

import (
	"time"

	"github.com/google/uuid"
)

// Exponential smoothing weights for preference scores.
const (
	PreferenceOldWeight = 0.7
	PreferenceNewWeight = 0.3
)

// UserPreference holds one smoothed 0-100 affinity value per
// (user, item type, category) key.
type UserPreference struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Key         string    `json:"key" db:"pref_key"`
	Score       float64   `json:"score" db:"score"`
	Frequency   int       `json:"frequency" db:"frequency"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// PreferenceKey composes the lookup key from item type and optional category.
func PreferenceKey(itemType string, category *string) string {
	if category != nil && *category != "" {
		return itemType + "_" + *category
	}
	return itemType
}

// RatingToScore maps a 1-5 rating onto the 0-100 preference scale.
func RatingToScore(rating int) float64 {
	return float64(rating) / 5 * 100
}
