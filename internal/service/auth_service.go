package service

import (
	"context"
	"errors"
	"time"

	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/repository"
	pkgerrors "go-warehouse-orders/pkg/errors"
	"go-warehouse-orders/pkg/jwt"
	"go-warehouse-orders/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeResponse, error)
	// Authenticate turns a bearer token into the caller identity. The
	// employee is reloaded so deactivation and role changes apply at once.
	Authenticate(ctx context.Context, token string) (model.Actor, error)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expires_at"`
	User      model.EmployeeResponse `json:"user"`
}

type authService struct {
	employees repository.EmployeeRepository
	tokens    *jwt.Manager
}

func NewAuthService(employees repository.EmployeeRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		employees: employees,
		tokens:    tokens,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	// 1. Find employee by email
	employee, err := s.employees.FindByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, mapStorageError(err, "employee")
	}

	// 2. Verify password
	if !employee.CheckPassword(req.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	// 3. Check if employee is active
	if !employee.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is inactive")
	}

	token, expiresAt, err := s.tokens.GenerateToken(employee)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to generate token")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      employee.ToResponse(),
	}, nil
}

func (s *authService) Me(ctx context.Context, employeeID uuid.UUID) (*model.EmployeeResponse, error) {
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return nil, mapStorageError(err, "employee")
	}
	response := employee.ToResponse()
	return &response, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (model.Actor, error) {
	claims, err := s.tokens.ValidateToken(token)
	if errors.Is(err, jwt.ErrMissingToken) {
		return model.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization token")
	}
	if err != nil {
		return model.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
	}

	employee, err := s.employees.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
	}
	if err != nil {
		return model.Actor{}, mapStorageError(err, "employee")
	}
	if !employee.IsActive {
		return model.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is inactive")
	}
	return employee.Actor(), nil
}
