package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CashboxHandler struct {
	cashbox service.CashboxService
}

func NewCashboxHandler(cashbox service.CashboxService) *CashboxHandler {
	return &CashboxHandler{cashbox: cashbox}
}

// Balance returns the current drawer balance.
// GET /api/v1/cashbox/balance
func (h *CashboxHandler) Balance(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"balance": h.cashbox.Balance()})
}

// Movements lists the cash ledger, newest first.
// GET /api/v1/cashbox/movements?type=&from=&to=&limit=
func (h *CashboxHandler) Movements(c *fiber.Ctx) error {
	filter := repository.CashMovementFilter{
		Type:  model.CashMovementType(c.Query("type")),
		Limit: c.QueryInt("limit"),
	}
	if c.Query("from") != "" || c.Query("to") != "" {
		since, until, err := parseDateRange(c)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		filter.Since = &since
		filter.Until = &until
	}

	movements, err := h.cashbox.ListMovements(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list cash movements"})
	}
	return c.JSON(fiber.Map{"movements": movements, "count": len(movements)})
}

// RecordPayment collects money against a sale, or registers a supplier
// payment against a purchase order.
// POST /api/v1/payments
func (h *CashboxHandler) RecordPayment(c *fiber.Ctx) error {
	var req service.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	payment, err := h.cashbox.RecordPayment(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(payment)
}

// ListPayments returns recorded payments, newest first.
// GET /api/v1/payments?limit=
func (h *CashboxHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.cashbox.ListPayments(c.QueryInt("limit"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list payments"})
	}
	return c.JSON(fiber.Map{"payments": payments, "count": len(payments)})
}

// RecordExpense pays money out of the drawer.
// POST /api/v1/expenses
func (h *CashboxHandler) RecordExpense(c *fiber.Ctx) error {
	var req service.RecordExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	expense, err := h.cashbox.RecordExpense(&req, currentUserID(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(expense)
}

// ListExpenses returns recorded expenses, newest first.
// GET /api/v1/expenses?from=&to=&limit=
func (h *CashboxHandler) ListExpenses(c *fiber.Ctx) error {
	since, until, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var expenses []model.Expense
	if c.Query("from") != "" || c.Query("to") != "" {
		expenses, err = h.cashbox.ListExpenses(&since, &until, c.QueryInt("limit"))
	} else {
		expenses, err = h.cashbox.ListExpenses(nil, nil, c.QueryInt("limit"))
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list expenses"})
	}
	return c.JSON(fiber.Map{"expenses": expenses, "count": len(expenses)})
}

// Reconcile recomputes the balance from all payments minus all expenses and
// overwrites the stored figure.
// POST /api/v1/cashbox/reconcile
func (h *CashboxHandler) Reconcile(c *fiber.Ctx) error {
	result, err := h.cashbox.Reconcile(currentUserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Reconciliation failed"})
	}
	return c.JSON(result)
}
