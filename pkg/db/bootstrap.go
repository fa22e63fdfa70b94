package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const schemaVersion = 1

// Money columns are TEXT, not NUMERIC: NUMERIC affinity coerces the bound
// decimal string to a float and rounds past ~15 significant digits.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		buy_price TEXT NOT NULL,
		sell_price TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		phone TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		address TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_phone TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		discount TEXT NOT NULL DEFAULT '0',
		amount_paid TEXT NOT NULL,
		sale_date DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_phone) REFERENCES customers(phone)
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		FOREIGN KEY (sale_id) REFERENCES sales(id),
		FOREIGN KEY (product_id) REFERENCES products(id)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_phone TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_date DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_phone) REFERENCES customers(phone)
	)`,
	`CREATE TABLE IF NOT EXISTS db_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Bootstrap creates the schema and records the version marker iff the
// store has never been initialized. Safe to call on every startup.
func Bootstrap(ctx context.Context, conn *gorm.DB) error {
	var name string
	err := conn.WithContext(ctx).
		Raw(`SELECT name FROM sqlite_master WHERE type='table' AND name='products'`).
		Scan(&name).Error
	if err != nil {
		return fmt.Errorf("checking schema presence: %w", err)
	}
	if name == "products" {
		return nil
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ddl := range schemaDDL {
			if err := tx.Exec(ddl).Error; err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}
		}
		if err := tx.Exec(`INSERT INTO db_version (version) VALUES (?)`, schemaVersion).Error; err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		return nil
	})
}

// Bootstrap initializes the schema on the client's connection.
func (c *Client) Bootstrap(ctx context.Context) error {
	return Bootstrap(ctx, c.conn)
}
