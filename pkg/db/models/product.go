package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one stocked item. Name doubles as the lookup key the
// checkout flow resolves cart lines against.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;not null;uniqueIndex"`
	Description string          `gorm:"column:description"`
	BuyPrice    decimal.Decimal `gorm:"column:buy_price;type:text;not null"`
	SellPrice   decimal.Decimal `gorm:"column:sell_price;type:text;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
