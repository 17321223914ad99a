package repository

import (
	"context"
	"sync"
	"testing"

	"go-warehouse-orders/internal/testutil"
	pkgerrors "go-warehouse-orders/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStockLedgerDeduct(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "SKU-1", 10)
	ledger := NewStockLedger(db)
	ctx := context.Background()

	require.NoError(t, ledger.Deduct(ctx, "SKU-1", 4))
	assert.Equal(t, 6, testutil.Stock(t, db, "SKU-1"))

	require.NoError(t, ledger.Deduct(ctx, "SKU-1", 6))
	assert.Equal(t, 0, testutil.Stock(t, db, "SKU-1"))
}

func TestStockLedgerDeductInsufficient(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "SKU-1", 3)
	ledger := NewStockLedger(db)

	err := ledger.Deduct(context.Background(), "SKU-1", 5)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "3 available")
	assert.Equal(t, 3, testutil.Stock(t, db, "SKU-1"))
}

func TestStockLedgerUnknownSKU(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	ledger := NewStockLedger(db)
	ctx := context.Background()

	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(ledger.Deduct(ctx, "NOPE", 1)))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(ledger.Restore(ctx, "NOPE", 1)))

	_, err := ledger.Available(ctx, "NOPE")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestStockLedgerRejectsNonPositiveAmounts(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "SKU-1", 3)
	ledger := NewStockLedger(db)
	ctx := context.Background()

	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(ledger.Deduct(ctx, "SKU-1", 0)))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(ledger.Restore(ctx, "SKU-1", -2)))
}

func TestStockLedgerRestore(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "SKU-1", 2)
	ledger := NewStockLedger(db)

	require.NoError(t, ledger.Restore(context.Background(), "SKU-1", 5))
	assert.Equal(t, 7, testutil.Stock(t, db, "SKU-1"))
}

func TestStockLedgerRollsBackWithTransaction(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "SKU-1", 5)
	testutil.SeedProduct(t, db, "SKU-2", 1)
	ledger := NewStockLedger(db)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		txLedger := ledger.WithTx(tx)
		if err := txLedger.Deduct(ctx, "SKU-1", 2); err != nil {
			return err
		}
		return txLedger.Deduct(ctx, "SKU-2", 2)
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, pkgerrors.CodeOf(err))
	assert.Equal(t, 5, testutil.Stock(t, db, "SKU-1"))
	assert.Equal(t, 1, testutil.Stock(t, db, "SKU-2"))
}

func TestStockLedgerConcurrentDeductsNeverOversell(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "SKU-1", 5)
	ledger := NewStockLedger(db)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Deduct(ctx, "SKU-1", 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, successes)
	assert.Equal(t, 0, testutil.Stock(t, db, "SKU-1"))
}
