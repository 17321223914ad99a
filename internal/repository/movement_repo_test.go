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

func TestMovementRepoRecordAndList(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewMovementRepo(db)
	ctx := context.Background()
	actor := uuid.New()

	require.NoError(t, repo.Record(ctx, &model.StockMovement{SKU: "A", ChangeType: model.MovementSale, Quantity: -2, OrderNumber: "ORD-0001", PerformedBy: actor}))
	require.NoError(t, repo.Record(ctx, &model.StockMovement{SKU: "B", ChangeType: model.MovementManualAdjustment, Quantity: 5, PerformedBy: actor}))

	all, err := repo.ListRecent(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	forA, err := repo.ListRecent(ctx, "A", 10)
	require.NoError(t, err)
	require.Len(t, forA, 1)
	assert.Equal(t, -2, forA[0].Quantity)
	assert.Equal(t, model.MovementSale, forA[0].ChangeType)
}
