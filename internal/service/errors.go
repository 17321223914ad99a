package service

import (
	"errors"

	"go-warehouse-orders/internal/model"
	pkgerrors "go-warehouse-orders/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// mapStorageError turns repository errors into typed errors. Errors that are
// already typed pass through unchanged.
func mapStorageError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, entity+" already exists")
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, entity+" violates a constraint")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, entity+": storage failure")
}

func requireActor(actor model.Actor) error {
	if actor.ID == uuid.Nil || !actor.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated actor required")
	}
	return nil
}

func reasonPtr(reason string) *string {
	if reason == "" {
		return nil
	}
	return &reason
}

func requireAdmin(actor model.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}
