package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an append-only ledger entry; rows are never updated or deleted.
type Payment struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerPhone string          `gorm:"column:customer_phone;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:text;not null"`
	PaymentDate   time.Time       `gorm:"column:payment_date;autoCreateTime"`
}

func (Payment) TableName() string { return "payments" }
