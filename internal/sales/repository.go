package sales

import (
	"context"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for sale headers and line items.
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

// CreateSale inserts the sale header and fills in its new identity.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// CreateItem inserts one line item for a committed-in-progress sale.
func (r *Repository) CreateItem(ctx context.Context, item *models.SaleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListItems returns the line items belonging to one sale.
func (r *Repository) ListItems(ctx context.Context, saleID int64) ([]models.SaleItem, error) {
	var rows []models.SaleItem
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

type saleWithCustomer struct {
	models.Sale
	CustomerName string
}

// ListRecent returns sale headers joined with the customer name, newest
// first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]SaleDTO, error) {
	var rows []saleWithCustomer
	q := r.db.WithContext(ctx).
		Table("sales").
		Select("sales.*, customers.name AS customer_name").
		Joins("JOIN customers ON customers.phone = sales.customer_phone").
		Order("sales.sale_date DESC, sales.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	dtos := make([]SaleDTO, len(rows))
	for i, row := range rows {
		dtos[i] = SaleDTO{
			ID:            row.ID,
			CustomerPhone: row.CustomerPhone,
			CustomerName:  row.CustomerName,
			TotalAmount:   row.TotalAmount,
			Discount:      row.Discount,
			AmountPaid:    row.AmountPaid,
			SaleDate:      row.SaleDate,
		}
	}
	return dtos, nil
}
