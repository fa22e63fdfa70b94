package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentResult reports a recorded payment together with the balance it
// settled against.
type PaymentResult struct {
	PaymentID   int64           `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	PreviousDue decimal.Decimal `json:"previous_due"`
	NewDue      decimal.Decimal `json:"new_due"`
}

// PaymentDTO is a payment ledger row for history views.
type PaymentDTO struct {
	ID            int64           `json:"id"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerName  string          `json:"customer_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
}
