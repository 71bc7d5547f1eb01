package handler

import (
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns the aggregated dashboard payload.
// GET /api/v1/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build dashboard"})
	}
	return c.JSON(summary)
}
