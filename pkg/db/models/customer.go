package models

import "time"

// Customer is keyed by phone number. The outstanding balance is never
// stored here; it is always derived from sales and payments history.
type Customer struct {
	Phone     string    `gorm:"column:phone;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     *string   `gorm:"column:email"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }
