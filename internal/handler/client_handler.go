package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler is thin enough to sit directly on the repository.
type ClientHandler struct {
	clientRepo repository.ClientRepository
}

func NewClientHandler(clientRepo repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo}
}

// List returns active clients.
// GET /api/v1/clients?search=
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.clientRepo.FindAll(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list clients"})
	}
	return c.JSON(fiber.Map{"clients": clients, "count": len(clients)})
}

// Get returns one client.
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}
	client, err := h.clientRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Client not found"})
	}
	return c.JSON(client)
}

// Create registers a client.
// POST /api/v1/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&client); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	client.Active = true
	if userID := currentUserID(c); userID != nil {
		client.CreatedBy = userID.String()
	}
	if err := h.clientRepo.Create(&client); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create client"})
	}
	return c.Status(201).JSON(client)
}

// Update replaces the contact fields.
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}
	client, err := h.clientRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Client not found"})
	}

	var req model.Client
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	client.LastName = req.LastName
	client.FirstName = req.FirstName
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	if userID := currentUserID(c); userID != nil {
		client.UpdatedBy = userID.String()
	}
	if err := h.clientRepo.Update(client); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update client"})
	}
	return c.JSON(client)
}

// Delete deactivates a client; sale history keeps pointing at them.
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid client ID"})
	}
	updatedBy := ""
	if userID := currentUserID(c); userID != nil {
		updatedBy = userID.String()
	}
	if err := h.clientRepo.Deactivate(id, updatedBy); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate client"})
	}
	return c.JSON(fiber.Map{"message": "Client deactivated"})
}
