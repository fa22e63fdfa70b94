package controllers

import (
	"net/http"
	"strings"

	"github.com/mahfuzanam/dokanpos-backend/api/responses"
	"github.com/mahfuzanam/dokanpos-backend/api/validators"
	paymentsvc "github.com/mahfuzanam/dokanpos-backend/internal/payments"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
)

// RecordPayment appends one due-settlement payment.
func RecordPayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := parseMoney("amount", payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Record(r.Context(), paymentsvc.RecordPaymentInput{
			CustomerPhone: payload.CustomerPhone,
			Amount:        amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListPayments returns the payment ledger, newest first. ?phone= narrows
// to one customer and ?limit= bounds the page size.
func ListPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		phone := strings.TrimSpace(r.URL.Query().Get("phone"))

		rows, err := svc.History(r.Context(), phone, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

type recordPaymentRequest struct {
	CustomerPhone string `json:"customer_phone" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
}
