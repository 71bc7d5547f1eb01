package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PurchaseHandler struct {
	purchases service.PurchaseService
}

func NewPurchaseHandler(purchases service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// List returns purchase orders, newest first.
// GET /api/v1/purchase-orders?supplier_id=&status=&limit=
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	filter := repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Limit:  c.QueryInt("limit"),
	}
	if raw := c.Query("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier_id"})
		}
		filter.SupplierID = &id
	}

	orders, err := h.purchases.ListOrders(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list purchase orders"})
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

// Get returns one order with its lines.
// GET /api/v1/purchase-orders/:id
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	order, err := h.purchases.GetOrder(id)
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(order)
}

// Create drafts a pending order. Stock does not move yet.
// POST /api/v1/purchase-orders
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.purchases.CreateOrder(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(order)
}

// Confirm marks a pending order as sent to the supplier.
// POST /api/v1/purchase-orders/:id/confirm
func (h *PurchaseHandler) Confirm(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	order, err := h.purchases.ConfirmOrder(id, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(order)
}

// Receive books the delivery and credits stock for every outstanding line.
// POST /api/v1/purchase-orders/:id/receive
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	order, err := h.purchases.ReceiveOrder(id, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(order)
}

// Cancel closes an order that was never received.
// POST /api/v1/purchase-orders/:id/cancel
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}
	order, err := h.purchases.CancelOrder(id, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(order)
}
