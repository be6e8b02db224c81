package processors

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/salesreport/src/models"
)

// priceSource reads one candidate total-price field. ok is false when the
// field is absent or does not parse.
type priceSource struct {
	field string
	read  func(o models.Order) (decimal.Decimal, bool)
}

// totalPriceSources lists the order total fields from most to least preferred.
var totalPriceSources = []priceSource{
	{
		field: "current_total_price",
		read: func(o models.Order) (decimal.Decimal, bool) {
			return parseAmount(o.CurrentTotalPrice)
		},
	},
	{
		field: "total_price_set.shop_money.amount",
		read: func(o models.Order) (decimal.Decimal, bool) {
			if o.TotalPriceSet == nil || o.TotalPriceSet.ShopMoney == nil {
				return decimal.Zero, false
			}
			return parseAmount(o.TotalPriceSet.ShopMoney.Amount)
		},
	},
	{
		field: "total_price",
		read: func(o models.Order) (decimal.Decimal, bool) {
			return parseAmount(o.TotalPrice)
		},
	},
}

// ResolveTotalPrice returns the first present and parseable total of the
// order together with the field it came from, or zero and "" when none is.
func ResolveTotalPrice(o models.Order) (decimal.Decimal, string) {
	for _, src := range totalPriceSources {
		if amount, ok := src.read(o); ok {
			return amount, src.field
		}
	}
	return decimal.Zero, ""
}

func parseAmount(raw *models.Amount) (decimal.Decimal, bool) {
	if raw == nil {
		return decimal.Zero, false
	}
	value := strings.TrimSpace(string(*raw))
	if value == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}
