package payments

import (
	"context"
	"fmt"
	"testing"

	"github.com/mahfuzanam/dokanpos-backend/internal/customers"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/retry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, customers.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:payments_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Bootstrap(context.Background(), conn))

	customerSvc, err := customers.NewService(customers.NewRepository(conn), retry.Policy{MaxAttempts: 1}, nil)
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), customerSvc, retry.Policy{MaxAttempts: 1}, nil)
	require.NoError(t, err)
	return svc, customerSvc, conn
}

func seedCustomer(t *testing.T, conn *gorm.DB, phone, name string) {
	t.Helper()
	require.NoError(t, conn.Exec(`INSERT INTO customers (phone, name) VALUES (?, ?)`, phone, name).Error)
}

func seedSale(t *testing.T, conn *gorm.DB, phone string, total, paid string) {
	t.Helper()
	require.NoError(t, conn.Exec(
		`INSERT INTO sales (customer_phone, total_amount, discount, amount_paid) VALUES (?, ?, 0, ?)`,
		phone, total, paid,
	).Error)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecordPaymentSettlesDue(t *testing.T) {
	svc, customerSvc, conn := newTestService(t)
	ctx := context.Background()

	seedCustomer(t, conn, "01712345678", "Rahim")
	seedSale(t, conn, "01712345678", "280", "250")

	result, err := svc.Record(ctx, RecordPaymentInput{
		CustomerPhone: "01712345678",
		Amount:        dec("30"),
	})
	require.NoError(t, err)
	assert.True(t, result.PreviousDue.Equal(dec("30")), "previous due = %s", result.PreviousDue)
	assert.True(t, result.NewDue.IsZero(), "new due = %s", result.NewDue)

	due, err := customerSvc.Due(ctx, "01712345678")
	require.NoError(t, err)
	assert.True(t, due.IsZero())
}

func TestRecordPaymentOverpaymentBecomesCredit(t *testing.T) {
	svc, customerSvc, conn := newTestService(t)
	ctx := context.Background()

	seedCustomer(t, conn, "01712345678", "Rahim")
	seedSale(t, conn, "01712345678", "280", "250")

	result, err := svc.Record(ctx, RecordPaymentInput{
		CustomerPhone: "01712345678",
		Amount:        dec("50"),
	})
	require.NoError(t, err)
	assert.True(t, result.NewDue.Equal(dec("-20")), "new due = %s", result.NewDue)

	due, err := customerSvc.Due(ctx, "01712345678")
	require.NoError(t, err)
	assert.True(t, due.Equal(dec("-20")))
}

func TestRecordPaymentValidation(t *testing.T) {
	svc, _, conn := newTestService(t)
	ctx := context.Background()

	seedCustomer(t, conn, "01712345678", "Rahim")

	cases := []struct {
		name  string
		input RecordPaymentInput
	}{
		{"empty phone", RecordPaymentInput{CustomerPhone: "", Amount: dec("10")}},
		{"zero amount", RecordPaymentInput{CustomerPhone: "01712345678", Amount: decimal.Zero}},
		{"negative amount", RecordPaymentInput{CustomerPhone: "01712345678", Amount: dec("-5")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestRecordPaymentUnknownCustomerIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Record(context.Background(), RecordPaymentInput{
		CustomerPhone: "01700000000",
		Amount:        dec("10"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestHistoryNewestFirstAndFiltered(t *testing.T) {
	svc, _, conn := newTestService(t)
	ctx := context.Background()

	seedCustomer(t, conn, "01712345678", "Rahim")
	seedCustomer(t, conn, "01898765432", "Karim")

	for _, amount := range []string{"10", "20", "30"} {
		_, err := svc.Record(ctx, RecordPaymentInput{CustomerPhone: "01712345678", Amount: dec(amount)})
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, RecordPaymentInput{CustomerPhone: "01898765432", Amount: dec("99")})
	require.NoError(t, err)

	all, err := svc.History(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Karim", all[0].CustomerName)
	assert.Greater(t, all[0].ID, all[1].ID)

	rahim, err := svc.History(ctx, "01712345678", 2)
	require.NoError(t, err)
	require.Len(t, rahim, 2)
	assert.True(t, rahim[0].Amount.Equal(dec("30")))
	for _, row := range rahim {
		assert.Equal(t, "01712345678", row.CustomerPhone)
	}
}
