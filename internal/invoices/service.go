package invoices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/mahfuzanam/dokanpos-backend/pkg/config"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Service renders committed sales into PDF invoices on local disk.
type Service interface {
	Render(ctx context.Context, data InvoiceData) (string, error)
}

type service struct {
	cfg  config.InvoiceConfig
	logg *logger.Logger
}

// NewService constructs an invoice renderer.
func NewService(cfg config.InvoiceConfig, logg *logger.Logger) Service {
	return &service{cfg: cfg, logg: logg}
}

// Render validates the invoice payload, writes
// invoice_<saleID>_<timestamp>.pdf under the configured output directory,
// and returns the file path. The sale is already committed when this
// runs; rendering failures are reported as dependency errors and must not
// be treated as a failed sale.
func (s *service) Render(ctx context.Context, data InvoiceData) (string, error) {
	if err := validate(data); err != nil {
		return "", err
	}

	dir := s.cfg.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating invoice directory")
	}

	filename := fmt.Sprintf("invoice_%d_%s.pdf", data.SaleID, time.Now().Format("20060102150405"))
	path := filepath.Join(dir, filename)

	if err := s.write(path, data); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithSaleID(ctx, data.SaleID), "invoice rendering failed", err)
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rendering invoice")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithSaleID(ctx, data.SaleID), "invoice rendered")
	}
	return path, nil
}

func validate(data InvoiceData) error {
	var errs error
	if data.SaleID <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("sale id must be positive"))
	}
	if strings.TrimSpace(data.CustomerName) == "" {
		errs = multierr.Append(errs, fmt.Errorf("customer name must not be empty"))
	}
	if len(data.Items) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("invoice must contain at least one item"))
	}
	for i, item := range data.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("item %d: name must not be empty", i+1))
		}
		if item.Quantity <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("item %d: quantity must be positive", i+1))
		}
		if item.UnitPrice.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("item %d: unit price must not be negative", i+1))
		}
	}
	// Dues are allowed to go negative (credit); the rest is not.
	for _, amount := range []struct {
		name  string
		value interface{ IsNegative() bool }
	}{
		{"subtotal", data.Subtotal},
		{"discount", data.Discount},
		{"total", data.Total},
		{"amount paid", data.AmountPaid},
	} {
		if amount.value.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("%s must not be negative", amount.name))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid invoice data")
	}
	return nil
}

func (s *service) write(path string, data InvoiceData) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(13, 13, 13)
	pdf.AddPage()

	s.writeHeader(pdf, data)
	writeCustomerSection(pdf, data)
	writeItemsTable(pdf, data.Items)
	writeSummary(pdf, data)
	writeFooter(pdf)

	return pdf.OutputFileAndClose(path)
}

func (s *service) writeHeader(pdf *fpdf.Fpdf, data InvoiceData) {
	width, _ := pdf.GetPageSize()
	usable := width - 26

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(usable, 12, s.cfg.CompanyName, "", 1, "C", false, 0, "")
	if s.cfg.CompanyAddr != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(usable, 5, s.cfg.CompanyAddr, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetDrawColor(224, 224, 224)
	x, y := pdf.GetXY()
	pdf.Line(x, y, x+usable, y)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(52, 152, 219)
	pdf.CellFormat(usable, 9, "SALES INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(usable/2, 6, fmt.Sprintf("Invoice #: %d", data.SaleID), "", 0, "L", false, 0, "")
	pdf.CellFormat(usable/2, 6, "Date: "+time.Now().Format("02-Jan-2006 03:04 PM"), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func writeCustomerSection(pdf *fpdf.Fpdf, data InvoiceData) {
	email := "N/A"
	if data.CustomerEmail != nil && *data.CustomerEmail != "" {
		email = *data.CustomerEmail
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 5, "CUSTOMER DETAILS", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range [][2]string{
		{"Name:", data.CustomerName},
		{"Phone:", data.CustomerPhone},
		{"Email:", email},
	} {
		pdf.CellFormat(30, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func writeItemsTable(pdf *fpdf.Fpdf, items []LineItem) {
	width, _ := pdf.GetPageSize()
	usable := width - 26
	nameWidth := usable - 20 - 35 - 35

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 5, "ITEMS PURCHASED", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(52, 152, 219)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(nameWidth, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range items {
		fill := i%2 == 1
		pdf.SetFillColor(248, 249, 250)
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(nameWidth, 7, item.Name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(35, 7, item.UnitPrice.StringFixed(2)+" tk", "1", 0, "R", fill, 0, "")
		pdf.CellFormat(35, 7, lineTotal.StringFixed(2)+" tk", "1", 1, "R", fill, 0, "")
	}
	pdf.Ln(5)
}

func writeSummary(pdf *fpdf.Fpdf, data InvoiceData) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 5, "PAYMENT SUMMARY", "", 1, "L", false, 0, "")

	width, _ := pdf.GetPageSize()
	usable := width - 26
	labelWidth := usable - 40

	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal:", data.Subtotal.StringFixed(2) + " tk", false},
		{"Discount:", data.Discount.StringFixed(2) + " tk", false},
		{"Total:", data.Total.StringFixed(2) + " tk", false},
		{"Previous Due:", data.PreviousDue.StringFixed(2) + " tk", false},
		{"Amount Paid:", data.AmountPaid.StringFixed(2) + " tk", false},
		{"New Due:", data.NewDue.StringFixed(2) + " tk", true},
	}
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(labelWidth, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)
}

func writeFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 7)
	pdf.SetTextColor(127, 140, 141)
	for _, line := range []string{
		"Thank you for your business!",
		"We appreciate your trust in our products",
		"Terms: All sales are final. Please contact us within 7 days for any issues.",
	} {
		pdf.CellFormat(0, 4, line, "", 1, "C", false, 0, "")
	}
}
