package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTripDays(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", day(2026, time.June, 1), day(2026, time.June, 1), 1},
		{"weekend", day(2026, time.June, 5), day(2026, time.June, 7), 3},
		{"month boundary", day(2026, time.May, 30), day(2026, time.June, 2), 4},
		{"end before start", day(2026, time.June, 7), day(2026, time.June, 5), 0},
		{"time of day ignored", time.Date(2026, time.June, 1, 23, 0, 0, 0, time.UTC), time.Date(2026, time.June, 2, 1, 0, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TripDays(tt.start, tt.end))
		})
	}
}
