package repository

import (
	"context"
	"testing"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepoAppendAndList(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewAuditRepo(db)
	ctx := context.Background()
	orderID := uuid.New()

	for _, typ := range []model.ModificationType{model.ModAddItem, model.ModQtyChange, model.ModStatusChange} {
		entry := &model.OrderModification{
			OrderID:      orderID,
			OrderNumber:  "ORD-0001",
			ModifiedByID: uuid.New(),
			Type:         typ,
		}
		require.NoError(t, repo.Append(ctx, entry))
		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	}
	require.NoError(t, repo.Append(ctx, &model.OrderModification{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-0002",
		Type:        model.ModAddItem,
	}))

	history, err := repo.ListByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, model.ModAddItem, history[0].Type)
	assert.Equal(t, model.ModStatusChange, history[2].Type)
	assert.Less(t, history[0].ID, history[1].ID)

	byNumber, err := repo.ListByOrderNumber(ctx, "ORD-0001")
	require.NoError(t, err)
	assert.Len(t, byNumber, 3)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "ORD-0002", recent[0].OrderNumber)
}

func TestAuditRepoRejectsRewrites(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewAuditRepo(db)
	ctx := context.Background()

	entry := &model.OrderModification{OrderID: uuid.New(), OrderNumber: "ORD-0001", Type: model.ModAddItem}
	require.NoError(t, repo.Append(ctx, entry))
	assert.ErrorIs(t, repo.Append(ctx, entry), ErrAuditEntryImmutable)

	assert.Error(t, repo.Append(ctx, &model.OrderModification{OrderID: uuid.New(), Type: "rename"}))
}

func TestAuditRepoUnknownOrderIsEmpty(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	history, err := NewAuditRepo(db).ListByOrderID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAuditRepoNumberUsed(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewAuditRepo(db)
	ctx := context.Background()

	used, err := repo.NumberUsed(ctx, "ORD-0010")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repo.Append(ctx, &model.OrderModification{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-0010",
		Type:        model.ModDeleteOrder,
		OldValue:    "Order ORD-0010 with 1 items",
		NewValue:    "DELETED",
	}))

	used, err = repo.NumberUsed(ctx, "ORD-0010")
	require.NoError(t, err)
	assert.True(t, used)
}
