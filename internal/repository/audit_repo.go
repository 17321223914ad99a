package repository

import (
	"context"
	"errors"
	"time"

	"go-warehouse-orders/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAuditEntryImmutable = errors.New("audit entries are append-only")

// AuditRepository is the append-only order modification log.
type AuditRepository interface {
	WithTx(tx *gorm.DB) AuditRepository
	Append(ctx context.Context, entry *model.OrderModification) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.OrderModification, error)
	ListByOrderNumber(ctx context.Context, orderNumber string) ([]model.OrderModification, error)
	NumberUsed(ctx context.Context, orderNumber string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]model.OrderModification, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) WithTx(tx *gorm.DB) AuditRepository {
	if tx == nil {
		return r
	}
	return &auditRepo{db: tx}
}

// Append assigns the entry's identity and timestamp and stores it.
func (r *auditRepo) Append(ctx context.Context, entry *model.OrderModification) error {
	if entry.ID != 0 {
		return ErrAuditEntryImmutable
	}
	if !entry.Type.IsValid() {
		return errors.New("invalid modification type " + string(entry.Type))
	}
	entry.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByOrderID returns the order's history, oldest first.
func (r *auditRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]model.OrderModification, error) {
	var entries []model.OrderModification
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditRepo) ListByOrderNumber(ctx context.Context, orderNumber string) ([]model.OrderModification, error) {
	var entries []model.OrderModification
	if err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// NumberUsed reports whether any entry was ever logged under orderNumber.
// Every deleted order leaves one, so its number stays reserved.
func (r *auditRepo) NumberUsed(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderModification{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *auditRepo) ListRecent(ctx context.Context, limit int) ([]model.OrderModification, error) {
	var entries []model.OrderModification
	query := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
