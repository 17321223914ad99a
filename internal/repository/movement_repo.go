package repository

import (
	"context"

	"go-warehouse-orders/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovementRepository interface {
	WithTx(tx *gorm.DB) MovementRepository
	Record(ctx context.Context, movement *model.StockMovement) error
	ListRecent(ctx context.Context, sku string, limit int) ([]model.StockMovement, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db: db}
}

func (r *movementRepo) WithTx(tx *gorm.DB) MovementRepository {
	if tx == nil {
		return r
	}
	return &movementRepo{db: tx}
}

func (r *movementRepo) Record(ctx context.Context, movement *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ListRecent returns the newest movements first, optionally for one SKU.
func (r *movementRepo) ListRecent(ctx context.Context, sku string, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	query := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true})
	if sku != "" {
		query = query.Where("sku = ?", sku)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
