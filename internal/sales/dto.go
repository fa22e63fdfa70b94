package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (product, quantity, price) entry in a checkout draft.
type CartLine struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// RecordSaleInput is the draft transaction a checkout session hands over.
// It is a value object owned by one session; the service never mutates it.
type RecordSaleInput struct {
	CustomerPhone string
	Lines         []CartLine
	Discount      decimal.Decimal
	AmountPaid    decimal.Decimal
}

// SaleResult carries the committed sale identity plus the six totals the
// operator confirms and the invoice renders.
type SaleResult struct {
	SaleID      int64           `json:"sale_id"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	PreviousDue decimal.Decimal `json:"previous_due"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	NewDue      decimal.Decimal `json:"new_due"`
}

// SaleDTO is a sale header row for history views.
type SaleDTO struct {
	ID            int64           `json:"id"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Discount      decimal.Decimal `json:"discount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	SaleDate      time.Time       `json:"sale_date"`
}
