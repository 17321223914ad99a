package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Employee is a staff member or administrator who can sign in.
type Employee struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// SetPassword hashes and sets the employee's password
func (e *Employee) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (e *Employee) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(e.Password), []byte(password))
	return err == nil
}

// Actor returns the caller identity used by the order engine.
func (e *Employee) Actor() Actor {
	return Actor{ID: e.ID, Name: e.Name, Role: e.Role}
}

// EmployeeResponse is used for API responses (without sensitive data)
type EmployeeResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (e *Employee) ToResponse() EmployeeResponse {
	status := "active"
	if !e.IsActive {
		status = "inactive"
	}
	return EmployeeResponse{
		ID:        e.ID.String(),
		Email:     e.Email,
		Name:      e.Name,
		Role:      e.Role,
		Status:    status,
		CreatedAt: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
