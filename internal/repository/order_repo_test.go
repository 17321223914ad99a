package repository

import (
	"context"
	"errors"
	"testing"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrder(number string, skus ...string) *model.Order {
	order := &model.Order{
		OrderNumber:  number,
		CustomerName: "Acme",
		CreatedByID:  uuid.New(),
		Status:       model.OrderStatusPending,
	}
	for i, sku := range skus {
		order.Items = append(order.Items, model.OrderItem{
			SKU:              sku,
			LineNo:           i + 1,
			QuantityRequired: i + 1,
			PickingStatus:    model.PickingStatusPending,
		})
	}
	return order
}

func TestOrderRepoCreateAndFind(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	order := newOrder("ORD-0001", "B", "A")
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", found.OrderNumber)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "B", found.Items[0].SKU, "items keep line order")
	assert.Equal(t, "A", found.Items[1].SKU)

	locked, err := repo.FindByIDForUpdate(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, locked.Items, 2)

	byNumber, err := repo.FindByNumber(ctx, "ORD-0001")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	exists, err := repo.NumberExists(ctx, "ORD-0001")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestOrderRepoDuplicateNumber(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newOrder("ORD-0001", "A")))
	err := repo.Create(ctx, newOrder("ORD-0001", "B"))
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestOrderRepoItemLifecycle(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	order := newOrder("ORD-0001", "A")
	require.NoError(t, repo.Create(ctx, order))

	item := &model.OrderItem{OrderID: order.ID, SKU: "B", LineNo: 2, QuantityRequired: 3, PickingStatus: model.PickingStatusPending}
	require.NoError(t, repo.CreateItem(ctx, item))
	require.NoError(t, repo.UpdateItemFields(ctx, item.ID, map[string]interface{}{"picking_status": model.PickingStatusPicked}))
	require.NoError(t, repo.DeleteItem(ctx, order.Items[0].ID))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "B", found.Items[0].SKU)
	assert.True(t, found.Items[0].IsPicked())
}

func TestOrderRepoListAndDelete(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	pending := newOrder("ORD-0001", "A")
	completed := newOrder("ORD-0002", "B")
	completed.Status = model.OrderStatusCompleted
	require.NoError(t, repo.Create(ctx, pending))
	require.NoError(t, repo.Create(ctx, completed))

	all, err := repo.List(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyCompleted, err := repo.List(ctx, OrderFilter{Status: model.OrderStatusCompleted})
	require.NoError(t, err)
	require.Len(t, onlyCompleted, 1)
	assert.Equal(t, "ORD-0002", onlyCompleted[0].OrderNumber)

	require.NoError(t, repo.Delete(ctx, pending.ID))
	_, err = repo.FindByID(ctx, pending.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var items int64
	require.NoError(t, db.Model(&model.OrderItem{}).Where("order_id = ?", pending.ID).Count(&items).Error)
	assert.Zero(t, items)
}
