package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, conn))

	client := &Client{conn: conn}
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO customers (phone, name) VALUES ('01712345678', 'Rahim')`).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM customers`).Scan(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, conn))

	client := &Client{conn: conn}
	failure := errors.New("boom")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO customers (phone, name) VALUES ('01712345678', 'Rahim')`).Error; err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM customers`).Scan(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, conn))

	client := &Client{conn: conn}
	require.Panics(t, func() {
		_ = client.WithTx(ctx, func(tx *gorm.DB) error {
			if err := tx.Exec(`INSERT INTO customers (phone, name) VALUES ('01712345678', 'Rahim')`).Error; err != nil {
				return err
			}
			panic("mid-transaction failure")
		})
	})

	var count int64
	require.NoError(t, conn.Raw(`SELECT COUNT(*) FROM customers`).Scan(&count).Error)
	require.EqualValues(t, 0, count)
}
