package handler

import (
	"go-warehouse-orders/internal/middleware"
	"go-warehouse-orders/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth      *AuthHandler
	Orders    *OrderHandler
	Products  *ProductHandler
	Employees *EmployeeHandler
}

// Register mounts the API under router. requireAuth turns the bearer token
// into the request's actor; order routes leave role checks to the order
// engine's access policy.
func Register(router fiber.Router, h Handlers, requireAuth fiber.Handler) {
	api := router.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", requireAuth, h.Auth.Me)

	public := api.Group("/public")
	public.Get("/catalogue", h.Products.GetCatalogue)
	public.Get("/categories", h.Products.GetCategories)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Product Routes
	protected.Get("/products", h.Products.GetProducts)
	protected.Get("/products/categories", h.Products.GetCategories)
	protected.Get("/products/zones", h.Products.GetZones)
	protected.Get("/products/low-stock", h.Products.GetLowStock)
	protected.Get("/products/:id", h.Products.GetProduct)
	protected.Post("/products", adminOnly, h.Products.CreateProduct)
	protected.Put("/products/:id", adminOnly, h.Products.UpdateProduct)
	protected.Delete("/products/:id", adminOnly, h.Products.DeleteProduct)
	protected.Patch("/products/:id/stock", adminOnly, h.Products.AdjustStock)
	protected.Get("/stock-movements", h.Products.GetStockMovements)

	// Order Routes
	protected.Get("/orders/next-order-id", h.Orders.NextOrderID)
	protected.Get("/orders/history/:orderNumber", h.Orders.GetHistoryByNumber)
	protected.Post("/orders", h.Orders.CreateOrder)
	protected.Get("/orders", h.Orders.GetOrders)
	protected.Get("/orders/:id", h.Orders.GetOrder)
	protected.Get("/orders/:id/modification-history", h.Orders.GetHistory)
	protected.Patch("/orders/:id/items/:itemId/pick", h.Orders.PickItem)
	protected.Patch("/orders/:id/items/:itemId/quantity", h.Orders.ChangeQuantity)
	protected.Post("/orders/:id/items", h.Orders.AddItem)
	protected.Delete("/orders/:id/items/:itemId", h.Orders.RemoveItem)
	protected.Patch("/orders/:id/customer", h.Orders.ChangeCustomer)
	protected.Patch("/orders/:id/status", h.Orders.ChangeStatus)
	protected.Delete("/orders/:id", h.Orders.DeleteOrder)

	// Employee Management Routes
	employees := protected.Group("/employees", adminOnly)
	employees.Get("", h.Employees.GetEmployees)
	employees.Post("", h.Employees.CreateEmployee)
	employees.Patch("/:id/status", h.Employees.ToggleStatus)
	employees.Delete("/:id", h.Employees.DeleteEmployee)
}
