package service

import (
	"context"
	"errors"
	"strings"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/repository"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/logger"
	"go-warehouse-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeService interface {
	CreateEmployee(ctx context.Context, actor model.Actor, req CreateEmployeeRequest) (*model.Employee, error)
	ListEmployees(ctx context.Context, actor model.Actor) ([]model.EmployeeResponse, error)
	ToggleStatus(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, actor model.Actor, id uuid.UUID) error
	// EnsureAdmin creates the default administrator unless an employee
	// with that email already exists. It reports whether one was created.
	EnsureAdmin(ctx context.Context, email, password, name string) (bool, error)
}

type CreateEmployeeRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	Name     string     `json:"name" validate:"trimmed_required,max=255"`
	Role     model.Role `json:"role" validate:"required,oneof=admin staff"`
}

type employeeService struct {
	employees repository.EmployeeRepository
	log       *logger.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, log *logger.Logger) EmployeeService {
	if log == nil {
		log = logger.Nop()
	}
	return &employeeService{employees: employees, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *employeeService) CreateEmployee(ctx context.Context, actor model.Actor, req CreateEmployeeRequest) (*model.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	if existing, err := s.employees.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapStorageError(err, "employee")
	}

	employee := &model.Employee{
		Email:    req.Email,
		Name:     strings.TrimSpace(req.Name),
		Role:     req.Role,
		IsActive: true,
	}
	employee.CreatedBy = actor.ID.String()
	employee.UpdatedBy = actor.ID.String()
	if err := employee.SetPassword(req.Password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash password")
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, mapStorageError(err, "employee")
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{"employee_id": employee.ID.String(), "role": employee.Role.String()}), "employee created")
	return employee, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, actor model.Actor) ([]model.EmployeeResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	employees, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, mapStorageError(err, "employees")
	}
	responses := make([]model.EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, employees[i].ToResponse())
	}
	return responses, nil
}

// ToggleStatus flips an employee between active and inactive. Admins cannot
// deactivate themselves.
func (s *employeeService) ToggleStatus(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change your own status")
	}
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, mapStorageError(err, "employee")
	}
	employee.IsActive = !employee.IsActive
	employee.UpdatedBy = actor.ID.String()
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, mapStorageError(err, "employee")
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{"employee_id": id.String(), "active": employee.IsActive}), "employee status changed")
	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete yourself")
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return mapStorageError(err, "employee")
	}
	s.log.Info(s.log.WithField(ctx, "employee_id", id.String()), "employee deleted")
	return nil
}

func (s *employeeService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "admin email and password are required")
	}
	_, err := s.employees.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, mapStorageError(err, "employee")
	}

	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	admin := &model.Employee{Email: email, Name: name, Role: model.RoleAdmin, IsActive: true}
	if err := admin.SetPassword(password); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to hash password")
	}
	if err := s.employees.Create(ctx, admin); err != nil {
		return false, mapStorageError(err, "employee")
	}
	s.log.Info(s.log.WithField(ctx, "email", email), "default admin created")
	return true, nil
}
