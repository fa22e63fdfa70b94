package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	paymentsvc "github.com/mahfuzanam/dokanpos-backend/internal/payments"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubPaymentService struct {
	recorded  *paymentsvc.RecordPaymentInput
	recordErr error
	phone     string
	limit     int
}

func (s *stubPaymentService) Record(ctx context.Context, input paymentsvc.RecordPaymentInput) (*paymentsvc.PaymentResult, error) {
	s.recorded = &input
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return &paymentsvc.PaymentResult{PaymentID: 1, Amount: input.Amount}, nil
}

func (s *stubPaymentService) History(ctx context.Context, phone string, limit int) ([]paymentsvc.PaymentDTO, error) {
	s.phone = phone
	s.limit = limit
	return nil, nil
}

func TestRecordPayment(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubPaymentService{}
		body := `{"customer_phone":"01712345678","amount":"50.00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RecordPayment(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.recorded == nil || !stub.recorded.Amount.Equal(decimal.RequireFromString("50.00")) {
			t.Fatalf("unexpected recorded input %+v", stub.recorded)
		}
	})

	t.Run("missing amount", func(t *testing.T) {
		body := `{"customer_phone":"01712345678"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RecordPayment(&stubPaymentService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		stub := &stubPaymentService{recordErr: pkgerrors.New(pkgerrors.CodeNotFound, "customer does not exist")}
		body := `{"customer_phone":"01700000000","amount":"50.00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RecordPayment(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestListPayments(t *testing.T) {
	stub := &stubPaymentService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?phone=01712345678&limit=10", nil)
	rec := httptest.NewRecorder()
	ListPayments(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.phone != "01712345678" || stub.limit != 10 {
		t.Fatalf("unexpected filter phone=%q limit=%d", stub.phone, stub.limit)
	}
}
