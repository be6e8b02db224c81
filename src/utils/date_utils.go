package utils

import (
	"time"
)

const (
	// DayKeyFormat is the layout of day keys in the daily summary.
	DayKeyFormat = "2006-01-02"
	// DayLabelFormat prints "Aug 1, 2024": short month, unpadded day, full year.
	DayLabelFormat = "Jan 2, 2006"
	// FileDateFormat is used in report file names.
	FileDateFormat = "20060102"

	windowStartFormat = "2006-01-02T00:00:00Z"
	windowEndFormat   = "2006-01-02T23:59:59Z"
)

// TruncateDay drops the time of day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween lists every calendar day from start to end, both included.
func DaysBetween(start, end time.Time) []time.Time {
	start, end = TruncateDay(start), TruncateDay(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WindowStart formats the first second of the day as the API expects it.
func WindowStart(day time.Time) string {
	return day.Format(windowStartFormat)
}

// WindowEnd formats the last second of the day as the API expects it.
func WindowEnd(day time.Time) string {
	return day.Format(windowEndFormat)
}
