package products

import (
	"time"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the quantity below which the operator UI flags a
// product for restocking.
const LowStockThreshold = 5

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Quantity    int             `json:"quantity"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		BuyPrice:    product.BuyPrice,
		SellPrice:   product.SellPrice,
		Quantity:    product.Quantity,
		LowStock:    product.Quantity < LowStockThreshold,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func newProductDTOs(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewProductDTO(&rows[i])
	}
	return dtos
}
