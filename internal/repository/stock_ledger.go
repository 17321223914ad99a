package repository

import (
	"context"
	"errors"

	"go-warehouse-orders/internal/model"
	pkgerrors "go-warehouse-orders/pkg/errors"

	"gorm.io/gorm"
)

// StockLedger owns products.quantity_available. Every change is a single
// conditional UPDATE so concurrent callers can never drive a SKU negative.
type StockLedger interface {
	WithTx(tx *gorm.DB) StockLedger
	Deduct(ctx context.Context, sku string, amount int) error
	Restore(ctx context.Context, sku string, amount int) error
	Available(ctx context.Context, sku string) (int, error)
}

type stockLedger struct {
	db *gorm.DB
}

func NewStockLedger(db *gorm.DB) StockLedger {
	return &stockLedger{db: db}
}

func (r *stockLedger) WithTx(tx *gorm.DB) StockLedger {
	if tx == nil {
		return r
	}
	return &stockLedger{db: tx}
}

func (r *stockLedger) Deduct(ctx context.Context, sku string, amount int) error {
	if amount <= 0 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "deduct amount must be positive, got %d", amount)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ? AND quantity_available >= ?", sku, amount).
		Update("quantity_available", gorm.Expr("quantity_available - ?", amount))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "deduct stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	available, err := r.Available(ctx, sku)
	if err != nil {
		return err
	}
	return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
		"insufficient stock for %s: %d available, %d required", sku, available, amount).
		WithDetails(map[string]any{"sku": sku, "available": available, "required": amount})
}

func (r *stockLedger) Restore(ctx context.Context, sku string, amount int) error {
	if amount <= 0 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "restore amount must be positive, got %d", amount)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ?", sku).
		Update("quantity_available", gorm.Expr("quantity_available + ?", amount))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Error, "restore stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product with SKU %s not found", sku)
	}
	return nil
}

func (r *stockLedger) Available(ctx context.Context, sku string) (int, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Select("quantity_available").First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Newf(pkgerrors.CodeNotFound, "product with SKU %s not found", sku)
	}
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read stock")
	}
	return product.QuantityAvailable, nil
}
