package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	return s == OrderStatusPending || s == OrderStatusCompleted
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid order status %q", value)
	}
	return status, nil
}

type PickingStatus string

const (
	PickingStatusPending PickingStatus = "pending"
	PickingStatusPicked  PickingStatus = "picked"
)

func (s PickingStatus) String() string {
	return string(s)
}

// Order is a customer order identified by its human-readable number (ORD-0001).
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber   string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	CustomerName  string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CreatedByID   uuid.UUID   `gorm:"type:uuid;not null" json:"created_by"`
	CreatedByName string      `gorm:"type:varchar(255)" json:"created_by_name"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

// FindItem returns the line with the given id, or nil.
func (o *Order) FindItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// FindItemBySKU returns the line for sku, or nil.
func (o *Order) FindItemBySKU(sku string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].SKU == sku {
			return &o.Items[i]
		}
	}
	return nil
}

// NextLineNo returns the position for a line appended to the order.
func (o *Order) NextLineNo() int {
	max := 0
	for _, item := range o.Items {
		if item.LineNo > max {
			max = item.LineNo
		}
	}
	return max + 1
}

// AllPicked reports whether every line has been picked. An order without
// lines is not considered picked.
func (o *Order) AllPicked() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.PickingStatus != PickingStatusPicked {
			return false
		}
	}
	return true
}

// OrderItem is one line of an order. Name and location are snapshots taken
// when the line was added.
type OrderItem struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"order_id"`
	LineNo           int           `gorm:"not null;default:0" json:"line_no"`
	SKU              string        `gorm:"type:varchar(50);not null;index" json:"sku"`
	ProductName      string        `gorm:"type:varchar(255)" json:"product_name"`
	LocationCode     string        `gorm:"type:varchar(32)" json:"full_location_code"`
	QuantityRequired int           `gorm:"not null;check:chk_order_items_quantity_required,quantity_required >= 1" json:"quantity_required"`
	PickingStatus    PickingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"picking_status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (i *OrderItem) IsPicked() bool {
	return i.PickingStatus == PickingStatusPicked
}

// Describe renders the line as "SKU xQTY", the format used in modification logs.
func (i *OrderItem) Describe() string {
	return DescribeLine(i.SKU, i.QuantityRequired)
}

func DescribeLine(sku string, qty int) string {
	return fmt.Sprintf("%s x%d", sku, qty)
}

// OrderSequence backs the global order number counter.
type OrderSequence struct {
	Name  string `gorm:"type:varchar(50);primaryKey" json:"name"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

const OrderNumberSequence = "orders"

// FormatOrderNumber renders a sequence value as ORD-0001.
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("ORD-%04d", n)
}
