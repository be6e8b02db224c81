package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 2, 27, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days := DaysBetween(start, end)
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i, d := range days {
		if got := d.Format(DayKeyFormat); got != want[i] {
			t.Errorf("day %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestDaysBetween_SingleAndReversed(t *testing.T) {
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(day, day); len(got) != 1 {
		t.Errorf("single-day range: expected 1 day, got %d", len(got))
	}
	if got := DaysBetween(day, day.AddDate(0, 0, -1)); len(got) != 0 {
		t.Errorf("reversed range: expected no days, got %d", len(got))
	}
}

func TestFormats(t *testing.T) {
	day := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	if got := day.Format(DayLabelFormat); got != "Aug 1, 2024" {
		t.Errorf("label = %q, want %q", got, "Aug 1, 2024")
	}
	if got := day.Format(FileDateFormat); got != "20240801" {
		t.Errorf("file date = %q, want %q", got, "20240801")
	}
	if got := WindowStart(day); got != "2024-08-01T00:00:00Z" {
		t.Errorf("WindowStart = %q", got)
	}
	if got := WindowEnd(day.AddDate(0, 0, 30)); got != "2024-08-31T23:59:59Z" {
		t.Errorf("WindowEnd = %q", got)
	}
}
