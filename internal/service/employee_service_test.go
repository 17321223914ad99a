package service

import (
	"context"
	"testing"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/repository"
	"go-warehouse-orders/internal/testutil"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmployee(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewEmployeeRepo(db)
	svc := NewEmployeeService(repo, logger.Nop())
	admin := testutil.SeedEmployee(t, db, "admin@example.com", model.RoleAdmin).Actor()
	staff := testutil.SeedEmployee(t, db, "picker@example.com", model.RoleStaff).Actor()
	ctx := context.Background()

	req := CreateEmployeeRequest{Email: " New.Picker@Example.com ", Password: "hunter22", Name: "New Picker", Role: model.RoleStaff}
	employee, err := svc.CreateEmployee(ctx, admin, req)
	require.NoError(t, err)
	assert.Equal(t, "new.picker@example.com", employee.Email)
	assert.True(t, employee.IsActive)
	assert.True(t, employee.CheckPassword("hunter22"))
	assert.NotEqual(t, "hunter22", employee.Password)

	_, err = svc.CreateEmployee(ctx, admin, req)
	assertCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.CreateEmployee(ctx, staff, CreateEmployeeRequest{Email: "x@example.com", Password: "hunter22", Name: "X", Role: model.RoleStaff})
	assertCode(t, err, pkgerrors.CodeForbidden)

	invalid := []CreateEmployeeRequest{
		{Email: "not-an-email", Password: "hunter22", Name: "X", Role: model.RoleStaff},
		{Email: "short@example.com", Password: "abc", Name: "X", Role: model.RoleStaff},
		{Email: "role@example.com", Password: "hunter22", Name: "X", Role: model.Role("manager")},
		{Email: "noname@example.com", Password: "hunter22", Name: "  ", Role: model.RoleStaff},
	}
	for _, req := range invalid {
		_, err = svc.CreateEmployee(ctx, admin, req)
		assertCode(t, err, pkgerrors.CodeValidation)
	}

	list, err := svc.ListEmployees(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestToggleAndDeleteEmployee(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEmployeeService(repository.NewEmployeeRepo(db), logger.Nop())
	admin := testutil.SeedEmployee(t, db, "admin@example.com", model.RoleAdmin).Actor()
	picker := testutil.SeedEmployee(t, db, "picker@example.com", model.RoleStaff)
	ctx := context.Background()

	toggled, err := svc.ToggleStatus(ctx, admin, picker.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	var stored model.Employee
	require.NoError(t, db.First(&stored, "id = ?", picker.ID).Error)
	assert.False(t, stored.IsActive, "deactivation is persisted")

	toggled, err = svc.ToggleStatus(ctx, admin, picker.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = svc.ToggleStatus(ctx, admin, admin.ID)
	assertCode(t, err, pkgerrors.CodeValidation)
	_, err = svc.ToggleStatus(ctx, picker.Actor(), admin.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	_, err = svc.ToggleStatus(ctx, admin, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	assertCode(t, svc.DeleteEmployee(ctx, admin, admin.ID), pkgerrors.CodeValidation)
	require.NoError(t, svc.DeleteEmployee(ctx, admin, picker.ID))
	assertCode(t, svc.DeleteEmployee(ctx, admin, picker.ID), pkgerrors.CodeNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewEmployeeService(repository.NewEmployeeRepo(db), logger.Nop())
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Root@Example.com", "changeme", "")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "root@example.com", "other", "Root")
	require.NoError(t, err)
	assert.False(t, created)

	var admin model.Employee
	require.NoError(t, db.First(&admin, "email = ?", "root@example.com").Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "Admin", admin.Name)
	assert.True(t, admin.CheckPassword("changeme"))

	_, err = svc.EnsureAdmin(ctx, "", "changeme", "")
	assertCode(t, err, pkgerrors.CodeValidation)
}
