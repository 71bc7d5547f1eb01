package handler

import (
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func sendAttachment(c *fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// InvoicePDF streams a printable invoice.
// GET /api/v1/reports/invoice/:id
func (h *ReportHandler) InvoicePDF(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}
	data, filename, err := h.reports.InvoicePDF(id)
	if err != nil {
		return businessError(c, err)
	}
	return sendAttachment(c, data, filename, "application/pdf")
}

// SalesSummaryPDF streams a period sales report.
// GET /api/v1/reports/sales.pdf?from=&to=
func (h *ReportHandler) SalesSummaryPDF(c *fiber.Ctx) error {
	since, until, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	data, filename, err := h.reports.SalesSummaryPDF(since, until)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}
	return sendAttachment(c, data, filename, "application/pdf")
}

// ProductsExcel streams the catalogue as a spreadsheet.
// GET /api/v1/reports/products.xlsx
func (h *ReportHandler) ProductsExcel(c *fiber.Ctx) error {
	data, filename, err := h.reports.ProductsExcel()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build export"})
	}
	return sendAttachment(c, data, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// SalesExcel streams period sales as a spreadsheet.
// GET /api/v1/reports/sales.xlsx?from=&to=
func (h *ReportHandler) SalesExcel(c *fiber.Ctx) error {
	since, until, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	data, filename, err := h.reports.SalesExcel(since, until)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build export"})
	}
	return sendAttachment(c, data, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}
