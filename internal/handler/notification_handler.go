package handler

import (
	"gestiostock-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// List returns the caller's unread notifications.
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	notifications, err := h.notificationRepo.FindUnreadByUser(*userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list notifications"})
	}
	return c.JSON(fiber.Map{"notifications": notifications, "count": len(notifications)})
}

// MarkRead flags one notification as read.
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid notification ID"})
	}
	if err := h.notificationRepo.MarkRead(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark notification"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllRead flags every unread notification of the caller.
// POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if userID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err := h.notificationRepo.MarkAllRead(*userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to mark notifications"})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
