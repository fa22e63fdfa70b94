package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mahfuzanam/dokanpos-backend/internal/customers"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/metrics"
	"github.com/mahfuzanam/dokanpos-backend/pkg/retry"
	"github.com/shopspring/decimal"
)

// Service exposes due-settlement payments and their history.
type Service interface {
	Record(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error)
	History(ctx context.Context, phone string, limit int) ([]PaymentDTO, error)
}

// RecordPaymentInput is one due-settlement payment to append.
type RecordPaymentInput struct {
	CustomerPhone string
	Amount        decimal.Decimal
}

type service struct {
	repo      *Repository
	customers customers.Service
	policy    retry.Policy
	metrics   *metrics.DataOpMetrics
}

// NewService constructs a payment service instance.
func NewService(repo *Repository, customerSvc customers.Service, policy retry.Policy, m *metrics.DataOpMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if customerSvc == nil {
		return nil, fmt.Errorf("customer service required")
	}
	return &service{repo: repo, customers: customerSvc, policy: policy, metrics: m}, nil
}

// Record appends one payment against a customer's running balance.
// Overpayment is allowed; the resulting negative due is a credit.
func (s *service) Record(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	phone := strings.TrimSpace(input.CustomerPhone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone must not be empty")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	if _, err := s.customers.Get(ctx, phone); err != nil {
		return nil, err
	}

	previousDue, err := s.customers.Due(ctx, phone)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		CustomerPhone: phone,
		Amount:        input.Amount,
	}
	err = s.withRetry(ctx, "payment.record", func(ctx context.Context) error {
		return s.repo.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return &PaymentResult{
		PaymentID:   payment.ID,
		Amount:      payment.Amount,
		PreviousDue: previousDue,
		NewDue:      previousDue.Sub(payment.Amount),
	}, nil
}

func (s *service) History(ctx context.Context, phone string, limit int) ([]PaymentDTO, error) {
	return s.repo.History(ctx, strings.TrimSpace(phone), limit)
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
