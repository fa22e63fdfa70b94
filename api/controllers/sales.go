package controllers

import (
	"net/http"

	"github.com/mahfuzanam/dokanpos-backend/api/responses"
	"github.com/mahfuzanam/dokanpos-backend/api/validators"
	customersvc "github.com/mahfuzanam/dokanpos-backend/internal/customers"
	invoicesvc "github.com/mahfuzanam/dokanpos-backend/internal/invoices"
	salesvc "github.com/mahfuzanam/dokanpos-backend/internal/sales"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// RecordSale commits one sale transaction and then renders its invoice.
// The sale commit is authoritative; an invoice failure degrades to a
// warning on the response instead of failing the request.
func RecordSale(svc salesvc.Service, customerSvc customersvc.Service, invoiceSvc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var payload recordSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Record(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		response := recordSaleResponse{SaleResult: *result}
		if invoiceSvc != nil && customerSvc != nil {
			path, warn := renderInvoice(r, customerSvc, invoiceSvc, input, result)
			response.InvoicePath = path
			response.InvoiceWarning = warn
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, response)
	}
}

func renderInvoice(r *http.Request, customerSvc customersvc.Service, invoiceSvc invoicesvc.Service, input salesvc.RecordSaleInput, result *salesvc.SaleResult) (string, string) {
	customer, err := customerSvc.Get(r.Context(), input.CustomerPhone)
	if err != nil {
		return "", "invoice skipped: " + err.Error()
	}

	items := make([]invoicesvc.LineItem, len(input.Lines))
	for i, line := range input.Lines {
		items[i] = invoicesvc.LineItem{
			Name:      line.ProductName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	path, err := invoiceSvc.Render(r.Context(), invoicesvc.InvoiceData{
		SaleID:        result.SaleID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		CustomerEmail: customer.Email,
		Items:         items,
		Subtotal:      result.Subtotal,
		Discount:      result.Discount,
		Total:         result.Total,
		PreviousDue:   result.PreviousDue,
		AmountPaid:    result.AmountPaid,
		NewDue:        result.NewDue,
	})
	if err != nil {
		return "", "invoice rendering failed: " + err.Error()
	}
	return path, ""
}

// ListSales returns recent sale headers, newest first. ?limit= bounds the
// page size.
func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

type recordSaleRequest struct {
	CustomerPhone string            `json:"customer_phone" validate:"required"`
	Items         []saleLineRequest `json:"items" validate:"required,min=1,dive"`
	Discount      string            `json:"discount,omitempty"`
	AmountPaid    string            `json:"amount_paid,omitempty"`
}

type saleLineRequest struct {
	ProductName string `json:"product_name" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	UnitPrice   string `json:"unit_price" validate:"required"`
}

type recordSaleResponse struct {
	salesvc.SaleResult
	InvoicePath    string `json:"invoice_path,omitempty"`
	InvoiceWarning string `json:"invoice_warning,omitempty"`
}

func (p recordSaleRequest) toInput() (salesvc.RecordSaleInput, error) {
	lines := make([]salesvc.CartLine, len(p.Items))
	for i, item := range p.Items {
		price, err := parseMoney("unit_price", item.UnitPrice)
		if err != nil {
			return salesvc.RecordSaleInput{}, err
		}
		lines[i] = salesvc.CartLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   price,
		}
	}

	discount, err := parseOptionalMoney("discount", p.Discount)
	if err != nil {
		return salesvc.RecordSaleInput{}, err
	}
	paid, err := parseOptionalMoney("amount_paid", p.AmountPaid)
	if err != nil {
		return salesvc.RecordSaleInput{}, err
	}

	return salesvc.RecordSaleInput{
		CustomerPhone: p.CustomerPhone,
		Lines:         lines,
		Discount:      discount,
		AmountPaid:    paid,
	}, nil
}

func parseOptionalMoney(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return parseMoney(field, raw)
}
