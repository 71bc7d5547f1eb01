package handler

import (
	"gestiostock-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// auditActor returns the authenticated user id for the audit columns,
// "system" when none is present (bootstrap seeding runs unauthenticated).
func auditActor(c *fiber.Ctx) string {
	if id := currentUserID(c); id != nil {
		return id.String()
	}
	return "system"
}

// GetUsers returns every account with its role and privileges.
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.users.GetAllUsers()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list users"})
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// GetUser returns one account.
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	user, err := h.users.GetUserByID(id)
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(user)
}

// CreateUser registers an account. The new user inherits its role's
// privilege set.
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.users.CreateUser(&req, auditActor(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.Status(201).JSON(user.ToResponse())
}

// UpdateUser changes profile fields, role, and optionally the password.
// Changing the role resets the privilege set.
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.users.UpdateUser(id, &req, auditActor(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(user.ToResponse())
}

// UpdateUserPrivileges replaces the account's privilege set.
// PUT /api/v1/users/:id/privileges
func (h *UserHandler) UpdateUserPrivileges(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		Privileges []string `json:"privileges"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.users.UpdateUserPrivileges(id, req.Privileges, auditActor(c))
	if err != nil {
		return businessError(c, err)
	}
	return c.JSON(user.ToResponse())
}

// DeleteUser soft-deletes the account; audit trails keep its id.
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	if err := h.users.DeleteUser(id); err != nil {
		return businessError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
