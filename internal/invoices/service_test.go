package invoices

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mahfuzanam/dokanpos-backend/pkg/config"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleData() InvoiceData {
	return InvoiceData{
		SaleID:        7,
		CustomerName:  "Rahim",
		CustomerPhone: "01712345678",
		Items: []LineItem{
			{Name: "Premium Rice Seeds 1kg", Quantity: 2, UnitPrice: dec("120.50")},
			{Name: "Organic Fertilizer 5kg", Quantity: 1, UnitPrice: dec("350.00")},
		},
		Subtotal:    dec("591.00"),
		Discount:    dec("41.00"),
		Total:       dec("550.00"),
		PreviousDue: dec("250.50"),
		AmountPaid:  dec("500.00"),
		NewDue:      dec("300.50"),
	}
}

func TestRenderWritesInvoiceFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(config.InvoiceConfig{OutputDir: dir, CompanyName: "Dokan POS"}, nil)

	path, err := svc.Render(context.Background(), sampleData())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.Regexp(t, `^invoice_7_\d{14}\.pdf$`, base)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderCreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "invoices")
	svc := NewService(config.InvoiceConfig{OutputDir: dir, CompanyName: "Dokan POS"}, nil)

	path, err := svc.Render(context.Background(), sampleData())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRenderAllowsNegativeNewDue(t *testing.T) {
	svc := NewService(config.InvoiceConfig{OutputDir: t.TempDir(), CompanyName: "Dokan POS"}, nil)

	data := sampleData()
	data.NewDue = dec("-20.00")
	_, err := svc.Render(context.Background(), data)
	require.NoError(t, err)
}

func TestRenderRejectsInvalidData(t *testing.T) {
	svc := NewService(config.InvoiceConfig{OutputDir: t.TempDir(), CompanyName: "Dokan POS"}, nil)

	cases := []struct {
		name   string
		mutate func(*InvoiceData)
	}{
		{"no items", func(d *InvoiceData) { d.Items = nil }},
		{"zero quantity", func(d *InvoiceData) { d.Items[0].Quantity = 0 }},
		{"negative unit price", func(d *InvoiceData) { d.Items[0].UnitPrice = dec("-1") }},
		{"empty customer name", func(d *InvoiceData) { d.CustomerName = "  " }},
		{"negative total", func(d *InvoiceData) { d.Total = dec("-10") }},
		{"missing sale id", func(d *InvoiceData) { d.SaleID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := sampleData()
			tc.mutate(&data)
			_, err := svc.Render(context.Background(), data)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestRenderReportsUnwritableDirectoryAsDependencyError(t *testing.T) {
	// A regular file where the output directory should be makes MkdirAll
	// fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	svc := NewService(config.InvoiceConfig{OutputDir: blocker, CompanyName: "Dokan POS"}, nil)
	_, err := svc.Render(context.Background(), sampleData())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
