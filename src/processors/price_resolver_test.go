package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/username/salesreport/src/models"
)

func TestResolveTotalPrice(t *testing.T) {
	shopMoney := func(value string) *models.PriceSet {
		return &models.PriceSet{ShopMoney: &models.Money{Amount: amount(value), CurrencyCode: "IDR"}}
	}

	tests := []struct {
		name      string
		order     models.Order
		wantPrice string
		wantField string
	}{
		{
			name:      "legacy total_price only",
			order:     models.Order{TotalPrice: amount("50.00")},
			wantPrice: "50",
			wantField: "total_price",
		},
		{
			name:      "shop money beats total_price",
			order:     models.Order{TotalPriceSet: shopMoney("75.25"), TotalPrice: amount("50.00")},
			wantPrice: "75.25",
			wantField: "total_price_set.shop_money.amount",
		},
		{
			name: "current_total_price beats both",
			order: models.Order{
				CurrentTotalPrice: amount("40"),
				TotalPriceSet:     shopMoney("75.25"),
				TotalPrice:        amount("50.00"),
			},
			wantPrice: "40",
			wantField: "current_total_price",
		},
		{
			name:      "unparseable field falls through",
			order:     models.Order{CurrentTotalPrice: amount("n/a"), TotalPrice: amount("12.5")},
			wantPrice: "12.5",
			wantField: "total_price",
		},
		{
			name:      "shop money without amount falls through",
			order:     models.Order{TotalPriceSet: &models.PriceSet{ShopMoney: &models.Money{}}, TotalPrice: amount("3")},
			wantPrice: "3",
			wantField: "total_price",
		},
		{
			name:      "nothing usable is zero",
			order:     models.Order{CurrentTotalPrice: amount("  ")},
			wantPrice: "0",
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, field := ResolveTotalPrice(tt.order)
			if !price.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("price = %s, want %s", price, tt.wantPrice)
			}
			if field != tt.wantField {
				t.Errorf("field = %q, want %q", field, tt.wantField)
			}
		})
	}
}
