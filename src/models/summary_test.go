package models

import (
	"testing"
	"time"
)

func TestDateRange_Days(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name string
		r    DateRange
		want int
	}{
		{"single day", DateRange{Start: day(2024, 8, 1), End: day(2024, 8, 1)}, 1},
		{"three days", DateRange{Start: day(2024, 8, 1), End: day(2024, 8, 3)}, 3},
		{"leap february", DateRange{Start: day(2024, 2, 1), End: day(2024, 2, 29)}, 29},
		{"across year", DateRange{Start: day(2024, 12, 30), End: day(2025, 1, 2)}, 4},
		{"time of day ignored", DateRange{Start: day(2024, 8, 1).Add(23 * time.Hour), End: day(2024, 8, 2)}, 2},
		{"reversed", DateRange{Start: day(2024, 8, 3), End: day(2024, 8, 1)}, 0},
	}
	for _, tt := range tests {
		if got := tt.r.Days(); got != tt.want {
			t.Errorf("%s: Days() = %d, want %d", tt.name, got, tt.want)
		}
	}
}
