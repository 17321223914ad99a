package handler

import (
	"go-warehouse-orders/internal/model"
	"go-warehouse-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type changeQuantityRequest struct {
	Quantity int    `json:"quantity_required"`
	Reason   string `json:"reason"`
}

type changeCustomerRequest struct {
	CustomerName string `json:"customer_name"`
	Reason       string `json:"reason"`
}

type changeStatusRequest struct {
	Status model.OrderStatus `json:"status"`
	Reason string            `json:"reason"`
}

// NextOrderID previews the number the next order will receive
// GET /api/orders/next-order-id
func (h *OrderHandler) NextOrderID(c *fiber.Ctx) error {
	number, err := h.service.NextOrderNumber(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"order_id": number})
}

// CreateOrder
// POST /api/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.CreateOrder(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order created", "data": order})
}

// GetOrders lists orders, newest first
// GET /api/orders?status=&limit=&skip=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	skip, err := queryInt(c, "skip")
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.UserContext(), actor, service.OrderListFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Skip:   skip,
	})
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.UserContext(), actor, orderID)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// GET /api/orders/:id/modification-history
func (h *OrderHandler) GetHistory(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}

	entries, err := h.service.History(c.UserContext(), actor, orderID)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// GetHistoryByNumber works for deleted orders too
// GET /api/orders/history/:orderNumber
func (h *OrderHandler) GetHistoryByNumber(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	entries, err := h.service.HistoryByNumber(c.UserContext(), actor, c.Params("orderNumber"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// PATCH /api/orders/:id/items/:itemId/pick
func (h *OrderHandler) PickItem(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}
	itemID, err := paramUUID(c, "itemId", "item")
	if err != nil {
		return err
	}

	order, err := h.service.PickItem(c.UserContext(), actor, orderID, itemID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Item picked", "data": order})
}

// POST /api/orders/:id/items
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}
	var req service.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.AddItem(c.UserContext(), actor, orderID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Item added", "data": order})
}

// DELETE /api/orders/:id/items/:itemId?reason=
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}
	itemID, err := paramUUID(c, "itemId", "item")
	if err != nil {
		return err
	}

	order, err := h.service.RemoveItem(c.UserContext(), actor, orderID, itemID, c.Query("reason"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Item removed", "data": order})
}

// PATCH /api/orders/:id/items/:itemId/quantity
func (h *OrderHandler) ChangeQuantity(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}
	itemID, err := paramUUID(c, "itemId", "item")
	if err != nil {
		return err
	}
	var req changeQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.ChangeQuantity(c.UserContext(), actor, orderID, itemID, req.Quantity, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Quantity updated", "data": order})
}

// PATCH /api/orders/:id/customer
func (h *OrderHandler) ChangeCustomer(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}
	var req changeCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.ChangeCustomerName(c.UserContext(), actor, orderID, req.CustomerName, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": order})
}

// PATCH /api/orders/:id/status
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}
	var req changeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.ChangeStatus(c.UserContext(), actor, orderID, req.Status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": order})
}

// DELETE /api/orders/:id?reason=
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	orderID, err := paramUUID(c, "id", "order")
	if err != nil {
		return err
	}

	if err := h.service.DeleteOrder(c.UserContext(), actor, orderID, c.Query("reason")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}
