package payments

import (
	"context"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages the append-only payment ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create appends one payment and fills in its new identity.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

type paymentWithCustomer struct {
	models.Payment
	CustomerName string
}

// History returns payment rows joined with the customer name, newest
// first. An empty phone selects every customer's payments.
func (r *Repository) History(ctx context.Context, phone string, limit int) ([]PaymentDTO, error) {
	var rows []paymentWithCustomer
	q := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, customers.name AS customer_name").
		Joins("JOIN customers ON customers.phone = payments.customer_phone").
		Order("payments.payment_date DESC, payments.id DESC")
	if phone != "" {
		q = q.Where("payments.customer_phone = ?", phone)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	dtos := make([]PaymentDTO, len(rows))
	for i, row := range rows {
		dtos[i] = PaymentDTO{
			ID:            row.ID,
			CustomerPhone: row.CustomerPhone,
			CustomerName:  row.CustomerName,
			Amount:        row.Amount,
			PaymentDate:   row.PaymentDate,
		}
	}
	return dtos, nil
}
