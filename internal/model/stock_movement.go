package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementType string

const (
	MovementSale                MovementType = "sale"
	MovementReversalRemoveItem  MovementType = "reversal_remove_item"
	MovementQtyAdjustment       MovementType = "qty_adjustment"
	MovementAddItemMerge        MovementType = "add_item_merge"
	MovementReversalOrderDelete MovementType = "reversal_order_delete"
	MovementManualAdjustment    MovementType = "manual_adjustment"
)

// StockMovement records one applied change to a product's available quantity.
// Quantity is signed: negative for deductions, positive for restores.
type StockMovement struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SKU         string       `gorm:"type:varchar(50);not null;index" json:"sku"`
	ChangeType  MovementType `gorm:"type:varchar(30);not null" json:"change_type"`
	Quantity    int          `gorm:"not null" json:"quantity_changed"`
	OrderNumber string       `gorm:"type:varchar(50);index" json:"order_number,omitempty"`
	Note        string       `gorm:"type:text" json:"note,omitempty"`
	PerformedBy uuid.UUID    `gorm:"type:uuid" json:"performed_by"`
	CreatedAt   time.Time    `gorm:"column:timestamp;index" json:"timestamp"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
