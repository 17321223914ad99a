package handler

import (
	"go-warehouse-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// CreateEmployee handles employee creation
// POST /api/employees
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req service.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	employee, err := h.employeeService.CreateEmployee(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Employee created successfully",
		"data":    employee.ToResponse(),
	})
}

// GetEmployees returns all employees
// GET /api/employees
func (h *EmployeeHandler) GetEmployees(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	employees, err := h.employeeService.ListEmployees(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(employees)
}

// ToggleStatus activates or deactivates an employee
// PATCH /api/employees/:id/status
func (h *EmployeeHandler) ToggleStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	employeeID, err := paramUUID(c, "id", "employee")
	if err != nil {
		return err
	}

	employee, err := h.employeeService.ToggleStatus(c.UserContext(), actor, employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Employee status updated",
		"data":    employee.ToResponse(),
	})
}

// DeleteEmployee
// DELETE /api/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	employeeID, err := paramUUID(c, "id", "employee")
	if err != nil {
		return err
	}

	if err := h.employeeService.DeleteEmployee(c.UserContext(), actor, employeeID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Employee deleted successfully"})
}
