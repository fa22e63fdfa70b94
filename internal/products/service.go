package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/metrics"
	"github.com/mahfuzanam/dokanpos-backend/pkg/retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes product catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error)
	List(ctx context.Context) ([]ProductDTO, error)
	GetByName(ctx context.Context, name string) (*ProductDTO, error)
	Search(ctx context.Context, query string) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Quantity    int
}

// UpdateProductInput rewrites every mutable product field.
type UpdateProductInput struct {
	Name        string
	Description string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Quantity    int
}

type service struct {
	repo    *Repository
	policy  retry.Policy
	metrics *metrics.DataOpMetrics
}

// NewService constructs a product service instance.
func NewService(repo *Repository, policy retry.Policy, m *metrics.DataOpMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, policy: policy, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateProductFields(name, input.BuyPrice, input.SellPrice, input.Quantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		BuyPrice:    input.BuyPrice,
		SellPrice:   input.SellPrice,
		Quantity:    input.Quantity,
	}

	err := s.withRetry(ctx, "product.create", func(ctx context.Context) error {
		_, err := s.repo.Create(ctx, product)
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "products.name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product with this name already exists")
		}
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateProductFields(name, input.BuyPrice, input.SellPrice, input.Quantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		BuyPrice:    input.BuyPrice,
		SellPrice:   input.SellPrice,
		Quantity:    input.Quantity,
	}

	err := s.withRetry(ctx, "product.update", func(ctx context.Context) error {
		found, err := s.repo.Update(ctx, product)
		if err != nil {
			return err
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d does not exist", id))
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "products.name") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product with this name already exists")
		}
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(updated), nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newProductDTOs(rows), nil
}

func (s *service) GetByName(ctx context.Context, name string) (*ProductDTO, error) {
	product, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q does not exist", name))
		}
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) Search(ctx context.Context, query string) ([]ProductDTO, error) {
	rows, err := s.repo.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return newProductDTOs(rows), nil
}

func (s *service) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	policy := s.policy
	policy.OnRetry = func(attempt int, err error) {
		s.metrics.IncLockRetry(op)
	}

	start := time.Now()
	err := retry.Do(ctx, policy, fn)
	s.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(op)
	}
	return err
}

func validateProductFields(name string, buyPrice, sellPrice decimal.Decimal, quantity int) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name must not be empty")
	}
	if buyPrice.IsNegative() || sellPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices must not be negative")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	return nil
}
