package customers

import (
	"context"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for customers and their balance history.
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

// Upsert inserts the customer or, when the phone already exists, rewrites
// the contact fields. Sales and payments history is untouched either way.
func (r *Repository) Upsert(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "phone"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       customer.Name,
				"email":      customer.Email,
				"address":    customer.Address,
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(customer).Error
}

// FindByPhone loads one customer.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns all customers ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// Search returns customers whose phone, name, or email contains the query,
// ordered by name.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Customer, error) {
	var rows []models.Customer
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("phone LIKE ? OR name LIKE ? OR email LIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// SaleBalances loads the (total_amount, amount_paid) pairs for one
// customer's sales. Summation happens in the service with exact decimals.
func (r *Repository) SaleBalances(ctx context.Context, phone string) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.db.WithContext(ctx).
		Select("total_amount", "amount_paid").
		Where("customer_phone = ?", phone).
		Find(&rows).
		Error
	return rows, err
}

// PaymentAmounts loads the payment amounts for one customer.
func (r *Repository) PaymentAmounts(ctx context.Context, phone string) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Select("amount").
		Where("customer_phone = ?", phone).
		Find(&rows).
		Error
	return rows, err
}
