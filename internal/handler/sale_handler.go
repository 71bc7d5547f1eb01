package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	sales service.SaleService
}

func NewSaleHandler(sales service.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// List returns recent sales, newest first.
// GET /api/v1/sales?client_id=&status=&from=&to=&limit=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	filter := repository.SaleFilter{
		Status: model.SaleStatus(c.Query("status")),
		Limit:  c.QueryInt("limit"),
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid client_id"})
		}
		filter.ClientID = &id
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		since, until, err := parseDateRange(c)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		filter.Since = &since
		filter.Until = &until
	}

	sales, err := h.sales.ListSales(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list sales"})
	}
	return c.JSON(fiber.Map{"sales": sales, "count": len(sales)})
}

// Get returns one sale with its lines.
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	sale, err := h.sales.GetSale(id)
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(sale)
}

// Create records a sale. Stock and cash move in the same transaction; any
// invalid line rejects the whole document.
// POST /api/v1/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.sales.CreateSale(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(sale)
}

// Cancel voids a sale and returns its items to stock.
// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	sale, err := h.sales.CancelSale(id, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(sale)
}
