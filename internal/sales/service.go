package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mahfuzanam/dokanpos-backend/internal/customers"
	"github.com/mahfuzanam/dokanpos-backend/internal/products"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db"
	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	pkgerrors "github.com/mahfuzanam/dokanpos-backend/pkg/errors"
	"github.com/mahfuzanam/dokanpos-backend/pkg/logger"
	"github.com/mahfuzanam/dokanpos-backend/pkg/metrics"
	"github.com/mahfuzanam/dokanpos-backend/pkg/retry"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service exposes the sale-recording transaction and sale history.
type Service interface {
	Record(ctx context.Context, input RecordSaleInput) (*SaleResult, error)
	ListRecent(ctx context.Context, limit int) ([]SaleDTO, error)
}

// TxRunner abstracts the store's transaction scope.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx        TxRunner
	repo      *Repository
	products  *products.Repository
	customers *customers.Repository
	policy    retry.Policy
	metrics   *metrics.DataOpMetrics
	logg      *logger.Logger
}

// ServiceParams bundles the sale service dependencies.
type ServiceParams struct {
	Tx        TxRunner
	Repo      *Repository
	Products  *products.Repository
	Customers *customers.Repository
	Policy    retry.Policy
	Metrics   *metrics.DataOpMetrics
	Logger    *logger.Logger
}

// NewService constructs the sale service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("sale repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		products:  params.Products,
		customers: params.Customers,
		policy:    params.Policy,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// Record commits one sale as a single atomic unit: header, line items, and
// stock decrements. No other connection can observe a header without its
// items. Retried on lock contention with the wider sale budget.
func (s *service) Record(ctx context.Context, input RecordSaleInput) (*SaleResult, error) {
	subtotal, err := validateDraft(input)
	if err != nil {
		return nil, err
	}
	total := subtotal.Sub(input.Discount)

	var result *SaleResult
	err = s.withRetry(ctx, "sale.record", func(ctx context.Context) error {
		result = nil
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			res, err := s.recordInTx(ctx, tx, input, subtotal, total)
			if err != nil {
				return err
			}
			result = res
			return nil
		})
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithCustomerPhone(ctx, input.CustomerPhone), "sale recording failed", err)
		}
		if db.IsLocked(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLocked, err, "store busy while recording sale")
		}
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithSaleID(ctx, result.SaleID), "sale recorded")
	}
	return result, nil
}

func (s *service) recordInTx(ctx context.Context, tx *gorm.DB, input RecordSaleInput, subtotal, total decimal.Decimal) (*SaleResult, error) {
	customersRepo := s.customers.WithTx(tx)
	productsRepo := s.products.WithTx(tx)
	salesRepo := s.repo.WithTx(tx)

	phone := strings.TrimSpace(input.CustomerPhone)
	if _, err := customersRepo.FindByPhone(ctx, phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("customer %q does not exist", phone))
		}
		return nil, err
	}

	previousDue, err := dueInTx(ctx, customersRepo, phone)
	if err != nil {
		return nil, err
	}

	// Paying more than the running balance plus this sale would manufacture
	// an unexplained credit; the operator has to record it as a payment
	// instead.
	if input.AmountPaid.GreaterThan(total.Add(previousDue)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount paid exceeds total plus outstanding due")
	}

	sale := &models.Sale{
		CustomerPhone: phone,
		TotalAmount:   total,
		Discount:      input.Discount,
		AmountPaid:    input.AmountPaid,
	}
	if err := salesRepo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}

	for _, line := range input.Lines {
		product, err := productsRepo.FindByName(ctx, strings.TrimSpace(line.ProductName))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q does not exist", line.ProductName))
			}
			return nil, err
		}

		item := &models.SaleItem{
			SaleID:    sale.ID,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		if err := salesRepo.CreateItem(ctx, item); err != nil {
			return nil, err
		}

		applied, err := productsRepo.DecrementStock(ctx, product.ID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("insufficient stock for %q: have %d, need %d", product.Name, product.Quantity, line.Quantity))
		}
	}

	return &SaleResult{
		SaleID:      sale.ID,
		Subtotal:    subtotal,
		Discount:    input.Discount,
		Total:       total,
		PreviousDue: previousDue,
		AmountPaid:  input.AmountPaid,
		NewDue:      previousDue.Add(total).Sub(input.AmountPaid),
	}, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]SaleDTO, error) {
	return s.repo.ListRecent(ctx, limit)
}

// validateDraft checks the whole draft before any transaction is opened
// and returns the exact-decimal subtotal. Per-line problems are
// accumulated so the operator sees them all at once.
func validateDraft(input RecordSaleInput) (decimal.Decimal, error) {
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "customer phone must not be empty")
	}
	if len(input.Lines) == 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	var lineErrs error
	subtotal := decimal.Zero
	for i, line := range input.Lines {
		if strings.TrimSpace(line.ProductName) == "" {
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("line %d: product name must not be empty", i+1))
		}
		if line.Quantity <= 0 {
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("line %d: quantity must be positive", i+1))
		}
		if line.UnitPrice.IsNegative() {
			lineErrs = multierr.Append(lineErrs, fmt.Errorf("line %d: unit price must not be negative", i+1))
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if lineErrs != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, lineErrs, "invalid cart").
			WithDetails(multierrMessages(lineErrs))
	}

	if input.Discount.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.Discount.GreaterThan(subtotal) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds subtotal")
	}
	if input.AmountPaid.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount paid must not be negative")
	}
	return subtotal, nil
}

func multierrMessages(err error) []string {
	errs := multierr.Errors(err)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return msgs
}

func dueInTx(ctx context.Context, repo *customers.Repository, phone string) (decimal.Decimal, error) {
	salesRows, err := repo.SaleBalances(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}
	paymentRows, err := repo.PaymentAmounts(ctx, phone)
	if err != nil {
		return decimal.Zero, err
	}

	due := decimal.Zero
	for _, sale := range salesRows {
		due = due.Add(sale.TotalAmount.Sub(sale.AmountPaid))
	}
	for _, payment := range paymentRows {
		due = due.Sub(payment.Amount)
	}
	return due, nil
}

func (s *service) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	policy := s.policy
	policy.OnRetry = func(attempt int, err error) {
		s.metrics.IncLockRetry(op)
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"op": op, "attempt": attempt}), "store locked, retrying")
		}
	}

	start := time.Now()
	err := retry.Do(ctx, policy, fn)
	s.metrics.ObserveDuration(op, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(op)
	}
	return err
}
