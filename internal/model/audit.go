package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ModificationType string

const (
	ModAddItem        ModificationType = "add_item"
	ModRemoveItem     ModificationType = "remove_item"
	ModQtyChange      ModificationType = "qty_change"
	ModStatusChange   ModificationType = "status_change"
	ModCustomerChange ModificationType = "customer_change"
	ModDeleteOrder    ModificationType = "delete_order"
)

var validModificationTypes = []ModificationType{
	ModAddItem,
	ModRemoveItem,
	ModQtyChange,
	ModStatusChange,
	ModCustomerChange,
	ModDeleteOrder,
}

func (m ModificationType) String() string {
	return string(m)
}

func (m ModificationType) IsValid() bool {
	for _, candidate := range validModificationTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseModificationType(value string) (ModificationType, error) {
	for _, candidate := range validModificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid modification type %q", value)
}

// OrderModification is one immutable audit log entry. It references the
// order by value (id and number) and is never cascaded with the order.
type OrderModification struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	OrderNumber    string           `gorm:"type:varchar(50);not null;index" json:"order_number"`
	ModifiedByID   uuid.UUID        `gorm:"type:uuid;not null" json:"modified_by"`
	ModifiedByName string           `gorm:"type:varchar(255)" json:"modified_by_name"`
	Type           ModificationType `gorm:"column:modification_type;type:varchar(30);not null" json:"modification_type"`
	FieldChanged   string           `gorm:"type:varchar(100)" json:"field_changed"`
	OldValue       string           `gorm:"type:text" json:"old_value"`
	NewValue       string           `gorm:"type:text" json:"new_value"`
	Reason         *string          `gorm:"type:text" json:"reason"`
	CreatedAt      time.Time        `gorm:"column:timestamp;index" json:"timestamp"`
}
