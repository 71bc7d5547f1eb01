package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	inventory service.InventoryService
}

func NewProductHandler(inventory service.InventoryService) *ProductHandler {
	return &ProductHandler{inventory: inventory}
}

// List returns the catalogue.
// GET /api/v1/products?search=&category_id=&low_stock=&all=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search:   c.Query("search"),
		LowStock: c.QueryBool("low_stock"),
		All:      c.QueryBool("all"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		filter.CategoryID = &id
	}

	products, err := h.inventory.ListProducts(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list products"})
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// Get returns one product with derived fields.
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	product, err := h.inventory.GetProduct(id)
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(product)
}

// Create registers a product; a non-zero initial stock lands as an "in" movement.
// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.inventory.CreateProduct(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(product)
}

// Update changes descriptive fields and prices. Stock is not accepted here.
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.inventory.UpdateProduct(id, &req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(product)
}

// Delete deactivates the product; history stays intact.
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.inventory.DeactivateProduct(id, currentUserID(c)); err != nil {
		return businessError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}

// Adjust sets the stock to an absolute count after a physical inventory.
// POST /api/v1/products/:id/adjust
func (h *ProductHandler) Adjust(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.ProductID = id

	movement, err := h.inventory.AdjustStock(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	if movement == nil {
		return c.JSON(fiber.Map{"message": "Stock already at requested level"})
	}
	return c.Status(201).JSON(movement)
}

// History lists every movement of one product, newest first.
// GET /api/v1/products/:id/movements
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	movements, err := h.inventory.ProductHistory(id)
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(fiber.Map{"movements": movements, "count": len(movements)})
}

// LowStock lists products at or below their minimum threshold.
// GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	products, err := h.inventory.LowStockProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list low stock products"})
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

// Movements lists stock movements across all products.
// GET /api/v1/stock/movements?product_id=&type=&from=&to=&limit=
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		Type:  model.MovementType(c.Query("type")),
		Limit: c.QueryInt("limit"),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product_id"})
		}
		filter.ProductID = &id
	}
	since, until, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	filter.Since = &since
	filter.Until = &until

	movements, err := h.inventory.ListMovements(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list movements"})
	}
	return c.JSON(fiber.Map{"movements": movements, "count": len(movements)})
}

// RecordMovement applies a manual movement outside any sale or order.
// POST /api/v1/stock/movements
func (h *ProductHandler) RecordMovement(c *fiber.Ctx) error {
	var req service.RecordMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	movement, err := h.inventory.RecordMovement(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(movement)
}
