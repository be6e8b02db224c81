package models

// Order is one record of the Admin API orders listing. Only the fields the
// report reads are decoded; absent price fields stay nil.
type Order struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	CreatedAt         string     `json:"created_at"`
	Currency          string     `json:"currency"`
	FinancialStatus   string     `json:"financial_status"`
	CancelledAt       *string    `json:"cancelled_at"`
	CurrentTotalPrice *Amount    `json:"current_total_price"`
	TotalPriceSet     *PriceSet  `json:"total_price_set"`
	TotalPrice        *Amount    `json:"total_price"`
	LineItems         []LineItem `json:"line_items"`
	Refunds           []Refund   `json:"refunds"`
}

type PriceSet struct {
	ShopMoney        *Money `json:"shop_money"`
	PresentmentMoney *Money `json:"presentment_money"`
}

type Money struct {
	Amount       *Amount `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

type LineItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Quantity Count  `json:"quantity"`
}

type Refund struct {
	ID              int64            `json:"id"`
	CreatedAt       string           `json:"created_at"`
	RefundLineItems []RefundLineItem `json:"refund_line_items"`
}

type RefundLineItem struct {
	ID         int64 `json:"id"`
	LineItemID int64 `json:"line_item_id"`
	Quantity   Count `json:"quantity"`
}

// OrdersPage is the JSON envelope of one orders listing response.
type OrdersPage struct {
	Orders []Order `json:"orders"`
}
