// Package testutil provides SQLite-backed fixtures for package tests.
package testutil

import (
	"testing"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/pkg/config"
	"go-warehouse-orders/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory database with the full schema applied.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedProduct inserts a product in zone A with the given stock.
func SeedProduct(t testing.TB, db *gorm.DB, sku string, qty int) *model.Product {
	t.Helper()

	product := &model.Product{
		SKU:               sku,
		Name:              "Product " + sku,
		Category:          "General",
		Zone:              "A",
		Aisle:             1,
		Rack:              2,
		Shelf:             3,
		Bin:               4,
		QuantityAvailable: qty,
		ReorderLevel:      5,
		SellingPrice:      decimal.NewFromInt(100),
		MRP:               decimal.NewFromInt(120),
		GSTPercentage:     decimal.NewFromInt(18),
	}
	product.RefreshLocationCode()
	require.NoError(t, db.Create(product).Error)
	return product
}

// SeedEmployee inserts an active employee and returns it.
func SeedEmployee(t testing.TB, db *gorm.DB, email string, role model.Role) *model.Employee {
	t.Helper()

	employee := &model.Employee{Email: email, Name: email, Role: role, IsActive: true}
	require.NoError(t, employee.SetPassword("secret123"))
	require.NoError(t, db.Create(employee).Error)
	return employee
}

// Stock reads the current available quantity of sku.
func Stock(t testing.TB, db *gorm.DB, sku string) int {
	t.Helper()

	var product model.Product
	require.NoError(t, db.First(&product, "sku = ?", sku).Error)
	return product.QuantityAvailable
}
