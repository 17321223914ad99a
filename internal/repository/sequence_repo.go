package repository

import (
	"context"
	"errors"

	"go-warehouse-orders/internal/model"

	"gorm.io/gorm"
)

// SequenceRepository is a database-backed monotonically increasing counter.
// Next must run inside the caller's transaction: the UPDATE holds the row
// lock until commit, so concurrent callers are serialised.
type SequenceRepository interface {
	WithTx(tx *gorm.DB) SequenceRepository
	Next(ctx context.Context, name string) (int64, error)
	Peek(ctx context.Context, name string) (int64, error)
}

type sequenceRepo struct {
	db *gorm.DB
}

func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db: db}
}

func (r *sequenceRepo) WithTx(tx *gorm.DB) SequenceRepository {
	if tx == nil {
		return r
	}
	return &sequenceRepo{db: tx}
}

func (r *sequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.OrderSequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		seq := model.OrderSequence{Name: name, Value: 1}
		if err := db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	}

	var seq model.OrderSequence
	if err := db.First(&seq, "name = ?", name).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// Peek returns the current value without consuming it (0 when unused).
func (r *sequenceRepo) Peek(ctx context.Context, name string) (int64, error) {
	var seq model.OrderSequence
	err := r.db.WithContext(ctx).First(&seq, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}
