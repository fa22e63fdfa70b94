package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/metrics"
	"github.com/mahfuzanam/dokanpos-backend/pkg/retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes customer management and the derived balance calculation.
type Service interface {
	Upsert(ctx context.Context, input UpsertCustomerInput) (*CustomerDTO, error)
	Get(ctx context.Context, phone string) (*CustomerDTO, error)
	List(ctx context.Context) ([]CustomerDTO, error)
	Search(ctx context.Context, query string) ([]CustomerDTO, error)
	Due(ctx context.Context, phone string) (decimal.Decimal, error)
}

// UpsertCustomerInput holds the insert-or-replace payload keyed by phone.
type UpsertCustomerInput struct {
	Phone   string
	Name    string
	Email   *string
	Address *string
}

type service struct {
	repo    *Repository
	policy  retry.Policy
	metrics *metrics.DataOpMetrics
}

// NewService constructs a customer service instance.
func NewService(repo *Repository, policy retry.Policy, m *metrics.DataOpMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo, policy: policy, metrics: m}, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertCustomerInput) (*CustomerDTO, error) {
	phone := strings.TrimSpace(input.Phone)
	name := strings.TrimSpace(input.Name)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone must not be empty")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name must not be empty")
	}

	customer := &models.Customer{
		Phone:   phone,
		Name:    name,
		Email:   input.Email,
		Address: input.Address,
	}

	err := s.withRetry(ctx, "customer.upsert", func(ctx context.Context) error {
		return s.repo.Upsert(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return NewCustomerDTO(saved), nil
}

func (s *service) Get(ctx context.Context, phone string) (*CustomerDTO, error) {
	customer, err := s.repo.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("customer %q does not exist", phone))
		}
		return nil, err
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) List(ctx context.Context) ([]CustomerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newCustomerDTOs(rows), nil
}

func (s *service) Search(ctx context.Context, query string) ([]CustomerDTO, error) {
	rows, err := s.repo.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return newCustomerDTOs(rows), nil
}

// Due derives the customer's outstanding balance from history:
// Σ(sale.total_amount − sale.amount_paid) − Σ(payment.amount).
// Summation is decimal end to end; a negative result is a credit.
func (s *service) Due(ctx context.Context, phone string) (decimal.Decimal, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "customer phone must not be empty")
	}

	sales, err := s.repo.SaleBalances(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	payments, err := s.repo.PaymentAmounts(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}

	due := decimal.Zero
	for _, sale := range sales {
		due = due.Add(sale.TotalAmount.Sub(sale.AmountPaid))
	}
	for _, payment := range payments {
		due = due.Sub(payment.Amount)
	}
	return due, nil
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
