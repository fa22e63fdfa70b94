package invoices

import "github.com/shopspring/decimal"

// LineItem is one purchased product rendered on the invoice.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// InvoiceData carries everything the renderer prints for one committed
// sale. Dues may be negative; a negative new due is a customer credit.
type InvoiceData struct {
	SaleID        int64
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Items         []LineItem
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PreviousDue   decimal.Decimal
	AmountPaid    decimal.Decimal
	NewDue        decimal.Decimal
}
