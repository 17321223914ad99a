package repository

import (
	"context"
	"testing"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepo(t *testing.T) {
	t.Parallel()

	db := testutil.NewDB(t)
	repo := NewEmployeeRepo(db)
	ctx := context.Background()

	admin := testutil.SeedEmployee(t, db, "admin@example.com", model.RoleAdmin)
	testutil.SeedEmployee(t, db, "picker@example.com", model.RoleStaff)

	found, err := repo.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.True(t, found.CheckPassword("secret123"))

	count, err := repo.CountByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, found.SetPassword("changed"))
	require.NoError(t, repo.UpdatePassword(ctx, found.ID, found.Password))
	reloaded, err := repo.FindByID(ctx, found.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CheckPassword("changed"))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, admin.ID))
	_, err = repo.FindByID(ctx, admin.ID)
	assert.Error(t, err)
}
