package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	customersvc "github.com/mahfuzanam/dokanpos-backend/internal/customers"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type stubCustomerService struct {
	upserted *customersvc.UpsertCustomerInput
	getErr   error
	due      decimal.Decimal
	dueErr   error
	searched string
}

func (s *stubCustomerService) Upsert(ctx context.Context, input customersvc.UpsertCustomerInput) (*customersvc.CustomerDTO, error) {
	s.upserted = &input
	return &customersvc.CustomerDTO{Phone: input.Phone, Name: input.Name}, nil
}

func (s *stubCustomerService) Get(ctx context.Context, phone string) (*customersvc.CustomerDTO, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &customersvc.CustomerDTO{Phone: phone, Name: "Rahim"}, nil
}

func (s *stubCustomerService) List(ctx context.Context) ([]customersvc.CustomerDTO, error) {
	return []customersvc.CustomerDTO{{Phone: "01712345678", Name: "Rahim"}}, nil
}

func (s *stubCustomerService) Search(ctx context.Context, query string) ([]customersvc.CustomerDTO, error) {
	s.searched = query
	return nil, nil
}

func (s *stubCustomerService) Due(ctx context.Context, phone string) (decimal.Decimal, error) {
	return s.due, s.dueErr
}

func withPhoneParam(req *http.Request, phone string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("phone", phone)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestUpsertCustomer(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubCustomerService{}
		body := `{"name":"Rahim","email":"rahim@example.com"}`
		req := withPhoneParam(httptest.NewRequest(http.MethodPut, "/api/v1/customers/01712345678", strings.NewReader(body)), "01712345678")
		rec := httptest.NewRecorder()
		UpsertCustomer(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.upserted == nil || stub.upserted.Phone != "01712345678" {
			t.Fatalf("expected upsert keyed by URL phone, got %+v", stub.upserted)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		req := withPhoneParam(httptest.NewRequest(http.MethodPut, "/api/v1/customers/01712345678", strings.NewReader(`{}`)), "01712345678")
		rec := httptest.NewRecorder()
		UpsertCustomer(&stubCustomerService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		body := `{"name":"Rahim","email":"not-an-email"}`
		req := withPhoneParam(httptest.NewRequest(http.MethodPut, "/api/v1/customers/01712345678", strings.NewReader(body)), "01712345678")
		rec := httptest.NewRecorder()
		UpsertCustomer(&stubCustomerService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCustomerDue(t *testing.T) {
	logg := testLogger()

	t.Run("returns derived balance", func(t *testing.T) {
		stub := &stubCustomerService{due: decimal.RequireFromString("-20")}
		req := withPhoneParam(httptest.NewRequest(http.MethodGet, "/api/v1/customers/01712345678/due", nil), "01712345678")
		rec := httptest.NewRecorder()
		CustomerDue(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body types.SuccessEnvelope
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode envelope: %v", err)
		}
		data := body.Data.(map[string]any)
		if data["due"] != "-20" {
			t.Fatalf("unexpected due %v", data["due"])
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		stub := &stubCustomerService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "customer does not exist")}
		req := withPhoneParam(httptest.NewRequest(http.MethodGet, "/api/v1/customers/01700000000/due", nil), "01700000000")
		rec := httptest.NewRecorder()
		CustomerDue(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestListCustomersSearch(t *testing.T) {
	stub := &stubCustomerService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?q=rahim", nil)
	rec := httptest.NewRecorder()
	ListCustomers(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.searched != "rahim" {
		t.Fatalf("expected Search(%q), got %q", "rahim", stub.searched)
	}
}
