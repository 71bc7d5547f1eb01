package handler

import (
	"errors"
	"strings"
	"time"

	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentUserID reads the authenticated user id the auth middleware stored in
// Locals. Nil when unauthenticated (public routes).
func currentUserID(c *fiber.Ctx) *uuid.UUID {
	raw := c.Locals("user_id")
	if raw == nil {
		return nil
	}
	str, ok := raw.(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return nil
	}
	return &id
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

// parseDateRange reads optional ?from=YYYY-MM-DD&to=YYYY-MM-DD query
// parameters, defaulting to the last 30 days.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -30)
	until := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return since, until, errors.New("invalid from date, use YYYY-MM-DD")
		}
		since = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return since, until, errors.New("invalid to date, use YYYY-MM-DD")
		}
		// Include the whole end day.
		until = parsed.Add(24*time.Hour - time.Second)
	}
	return since, until, nil
}

// businessError maps the service sentinel errors onto HTTP statuses. Unknown
// errors become 500 without leaking internals.
func businessError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSaleCancelled),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, service.ErrPaymentTarget):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrReferenceExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case strings.HasPrefix(err.Error(), "Validation failed"):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Internal server error"})
}
