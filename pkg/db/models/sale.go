package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the header row of one completed transaction. Immutable once
// committed; there is no sale-edit operation.
type Sale struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerPhone string          `gorm:"column:customer_phone;not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:text;not null"`
	Discount      decimal.Decimal `gorm:"column:discount;type:text;not null"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:text;not null"`
	SaleDate      time.Time       `gorm:"column:sale_date;autoCreateTime"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem captures one cart line with the unit price at sale time,
// decoupled from later product price changes.
type SaleItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SaleID    int64           `gorm:"column:sale_id;not null"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:text;not null"`
}

func (SaleItem) TableName() string { return "sale_items" }
