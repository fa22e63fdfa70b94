package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mahfuzanam/dokanpos-backend/api/responses"
	"github.com/mahfuzanam/dokanpos-backend/api/validators"
	customersvc "github.com/mahfuzanam/dokanpos-backend/internal/customers"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
)

// UpsertCustomer inserts or replaces the customer identified by the phone
// in the URL.
func UpsertCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		phone := strings.TrimSpace(chi.URLParam(r, "phone"))
		if phone == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer phone must not be empty"))
			return
		}

		var payload upsertCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Upsert(r.Context(), customersvc.UpsertCustomerInput{
			Phone:   phone,
			Name:    payload.Name,
			Email:   payload.Email,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// ListCustomers returns all customers, or a phone/name/email search when
// ?q= is present.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))

		var (
			rows []customersvc.CustomerDTO
			err  error
		)
		if query != "" {
			rows, err = svc.Search(r.Context(), query)
		} else {
			rows, err = svc.List(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// CustomerDue returns the derived outstanding balance for one customer.
// A negative due is a credit held by the shop.
func CustomerDue(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		phone := strings.TrimSpace(chi.URLParam(r, "phone"))

		// The phone must identify a real customer before the balance means
		// anything.
		if _, err := svc.Get(r.Context(), phone); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		due, err := svc.Due(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"phone": phone,
			"due":   due,
		})
	}
}

type upsertCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}
