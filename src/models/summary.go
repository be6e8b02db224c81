package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaySummary holds the running totals for one calendar day.
type DaySummary struct {
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
	Items  int             `json:"items"`
}

// Add folds another summary into s.
func (s DaySummary) Add(other DaySummary) DaySummary {
	return DaySummary{
		Sales:  s.Sales.Add(other.Sales),
		Orders: s.Orders + other.Orders,
		Items:  s.Items + other.Items,
	}
}

// DailySummaryResult maps a YYYY-MM-DD day key to its totals.
type DailySummaryResult map[string]DaySummary

// TotalOrders is the number of orders counted across all days.
func (r DailySummaryResult) TotalOrders() int {
	total := 0
	for _, s := range r {
		total += s.Orders
	}
	return total
}

// ReportRow is one line of the emitted report. The TOTAL row has IsTotal set.
type ReportRow struct {
	Day     time.Time
	Label   string
	Sales   decimal.Decimal
	Items   int
	Orders  int
	IsTotal bool
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days is the number of calendar days in the range, both ends included.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}
