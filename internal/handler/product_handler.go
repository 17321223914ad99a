package handler

import (
	"go-warehouse-orders/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func productFilter(c *fiber.Ctx) (service.ProductListFilter, error) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return service.ProductListFilter{}, err
	}
	skip, err := queryInt(c, "skip")
	if err != nil {
		return service.ProductListFilter{}, err
	}
	return service.ProductListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Zone:     c.Query("zone"),
		LowStock: c.QueryBool("low_stock"),
		Limit:    limit,
		Skip:     skip,
	}, nil
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	product, err := h.service.CreateProduct(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	productID, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), actor, productID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	productID, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), actor, productID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// AdjustStock applies a signed correction to available stock
// PATCH /api/products/:id/stock
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	productID, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}
	var req service.StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	product, err := h.service.AdjustStock(c.UserContext(), actor, productID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": product})
}

// GET /api/products?search=&category=&zone=&low_stock=&limit=&skip=
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return err
	}
	page, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := paramUUID(c, "id", "product")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// GET /api/products/categories, /api/public/categories
func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// GET /api/products/zones
func (h *ProductHandler) GetZones(c *fiber.Ctx) error {
	zones, err := h.service.Zones(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(zones)
}

// GET /api/products/low-stock?limit=
func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	products, err := h.service.LowStock(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/stock-movements?sku=&limit=
func (h *ProductHandler) GetStockMovements(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	movements, err := h.service.RecentMovements(c.UserContext(), c.Query("sku"), limit)
	if err != nil {
		return err
	}
	return c.JSON(movements)
}

// GetCatalogue is the unauthenticated product listing
// GET /api/public/catalogue?search=&category=&limit=&skip=
func (h *ProductHandler) GetCatalogue(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return err
	}
	catalogue, err := h.service.PublicCatalogue(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(catalogue)
}
