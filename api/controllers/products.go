package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mahfuzanam/dokanpos-backend/api/responses"
	"github.com/mahfuzanam/dokanpos-backend/api/validators"
	productsvc "github.com/mahfuzanam/dokanpos-backend/internal/products"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// CreateProduct handles product registration.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct rewrites every mutable field of one product.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetProductByName looks up a single product by its exact name.
func GetProductByName(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product name is required"))
			return
		}

		product, err := svc.GetByName(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns all products, or a name/description search when
// ?q= is present.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))

		var (
			rows []productsvc.ProductDTO
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

type productRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	BuyPrice    string `json:"buy_price" validate:"required"`
	SellPrice   string `json:"sell_price" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=0"`
}

func (p productRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	buy, sell, err := p.prices()
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}
	return productsvc.CreateProductInput{
		Name:        p.Name,
		Description: p.Description,
		BuyPrice:    buy,
		SellPrice:   sell,
		Quantity:    p.Quantity,
	}, nil
}

func (p productRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	buy, sell, err := p.prices()
	if err != nil {
		return productsvc.UpdateProductInput{}, err
	}
	return productsvc.UpdateProductInput{
		Name:        p.Name,
		Description: p.Description,
		BuyPrice:    buy,
		SellPrice:   sell,
		Quantity:    p.Quantity,
	}, nil
}

func (p productRequest) prices() (decimal.Decimal, decimal.Decimal, error) {
	buy, err := parseMoney("buy_price", p.BuyPrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	sell, err := parseMoney("sell_price", p.SellPrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return buy, sell, nil
}

func parseMoney(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid money amount").
			WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
