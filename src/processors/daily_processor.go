package processors

import (
	"fmt"
	"time"

	"github.com/username/salesreport/src/logger"
	"github.com/username/salesreport/src/models"
)

const dayKeyLayout = "2006-01-02"

// dailyProcessorImpl implements the DailyProcessor interface.
type dailyProcessorImpl struct {
	debug bool
}

// NewDailyProcessor creates a new instance of DailyProcessor. With debug set,
// every counted order is logged at debug level.
func NewDailyProcessor(debug bool) DailyProcessor {
	return &dailyProcessorImpl{debug: debug}
}

// Calculate deduplicates orders by id (first occurrence wins) and groups
// sales, order count and net items by the creation day.
func (p *dailyProcessorImpl) Calculate(orders []models.Order) models.DailySummaryResult {
	result := make(models.DailySummaryResult)
	seen := make(map[int64]string, len(orders))
	duplicates := 0
	malformed := 0

	for _, order := range orders {
		fingerprint := orderFingerprint(order)
		if first, ok := seen[order.ID]; ok {
			duplicates++
			if first != fingerprint {
				logger.L.Warn("Duplicate order differs from its first occurrence, keeping the first",
					"orderID", order.ID, "first", first, "duplicate", fingerprint)
			}
			continue
		}
		seen[order.ID] = fingerprint

		day, ok := DayKey(order.CreatedAt)
		if !ok {
			malformed++
			logger.L.Warn("Skipping order with malformed created_at", "orderID", order.ID, "createdAt", order.CreatedAt)
			continue
		}

		sales, priceField := ResolveTotalPrice(order)
		totalQty := TotalQuantity(order)
		refundedQty := RefundedQuantity(order)
		netItems := NetItems(order)

		if p.debug {
			logger.L.Debug("Order counted",
				"orderID", order.ID,
				"name", order.Name,
				"day", day,
				"sales", sales.String(),
				"priceField", priceField,
				"netItems", netItems,
				"totalQty", totalQty,
				"refundedQty", refundedQty)
		}

		summary := result[day] // zero value when the day is new
		summary = summary.Add(models.DaySummary{Sales: sales, Orders: 1, Items: netItems})
		result[day] = summary
	}

	if duplicates > 0 {
		logger.L.Info("Skipped duplicate orders", "count", duplicates)
	}
	if malformed > 0 {
		logger.L.Warn("Skipped orders with malformed creation time", "count", malformed)
	}
	return result
}

// DayKey is the YYYY-MM-DD prefix of an ISO-8601 timestamp, taken as written
// without any timezone conversion.
func DayKey(createdAt string) (string, bool) {
	if len(createdAt) < len(dayKeyLayout) {
		return "", false
	}
	day := createdAt[:len(dayKeyLayout)]
	if _, err := time.Parse(dayKeyLayout, day); err != nil {
		return "", false
	}
	return day, true
}

// orderFingerprint captures the fields that feed the aggregation.
func orderFingerprint(o models.Order) string {
	sales, _ := ResolveTotalPrice(o)
	return fmt.Sprintf("%s|%s|%d", o.CreatedAt, sales.String(), NetItems(o))
}

// TotalQuantity sums the quantities of all line items.
func TotalQuantity(o models.Order) int {
	total := 0
	for _, item := range o.LineItems {
		total += int(item.Quantity)
	}
	return total
}

// RefundedQuantity sums refund line item quantities across every refund.
func RefundedQuantity(o models.Order) int {
	refunded := 0
	for _, refund := range o.Refunds {
		for _, rli := range refund.RefundLineItems {
			refunded += int(rli.Quantity)
		}
	}
	return refunded
}

// NetItems is the quantity an order contributes after refunds, never below zero.
func NetItems(o models.Order) int {
	return max(TotalQuantity(o)-RefundedQuantity(o), 0)
}
