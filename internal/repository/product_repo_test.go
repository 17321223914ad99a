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

func TestProductRepoFilters(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "BOLT-1", 50)
	low := testutil.SeedProduct(t, db, "NUT-1", 2)
	other := testutil.SeedProduct(t, db, "WASHER-1", 40)
	other.Zone = "B"
	other.Category = "Hardware"
	other.RefreshLocationCode()
	require.NoError(t, repo.Update(ctx, other))

	products, total, err := repo.FindAll(ctx, ProductFilter{Search: "nut"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, low.SKU, products[0].SKU)

	products, _, err = repo.FindAll(ctx, ProductFilter{Zone: "B"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "WASHER-1", products[0].SKU)

	products, _, err = repo.FindAll(ctx, ProductFilter{LowStock: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "NUT-1", products[0].SKU)

	products, total, err = repo.FindAll(ctx, ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, products, 2)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"General", "Hardware"}, categories)

	zones, err := repo.Zones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, zones)
}

func TestProductRepoDelete(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "BOLT-1", 5)
	require.NoError(t, repo.Delete(ctx, product.ID))

	_, err := repo.FindBySKU(ctx, "BOLT-1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, uuid.New()), gorm.ErrRecordNotFound))
}

func TestProductRepoDuplicateSKU(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewProductRepo(db)

	testutil.SeedProduct(t, db, "BOLT-1", 5)
	err := repo.Create(context.Background(), &model.Product{SKU: "BOLT-1", Name: "dup", Zone: "A"})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
