package processors

import (
	"github.com/username/salesreport/src/models"
)

// DailyProcessor folds a raw order list into per-day totals.
type DailyProcessor interface {
	Calculate(orders []models.Order) models.DailySummaryResult
}
