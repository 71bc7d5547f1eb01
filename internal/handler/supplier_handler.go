package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierHandler(supplierRepo repository.SupplierRepository) *SupplierHandler {
	return &SupplierHandler{supplierRepo: supplierRepo}
}

// List returns active suppliers.
// GET /api/v1/suppliers?search=
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.supplierRepo.FindAll(c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list suppliers"})
	}
	return c.JSON(fiber.Map{"suppliers": suppliers, "count": len(suppliers)})
}

// Get returns one supplier.
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	supplier, err := h.supplierRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Supplier not found"})
	}
	return c.JSON(supplier)
}

// Create registers a supplier. Names are unique.
// POST /api/v1/suppliers
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&supplier); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}
	if existing, _ := h.supplierRepo.FindByName(supplier.Name); existing != nil {
		return c.Status(409).JSON(fiber.Map{"error": "Supplier name already exists"})
	}

	supplier.Active = true
	if userID := currentUserID(c); userID != nil {
		supplier.CreatedBy = userID.String()
	}
	if err := h.supplierRepo.Create(&supplier); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create supplier"})
	}
	return c.Status(201).JSON(supplier)
}

// Update replaces the contact fields.
// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	supplier, err := h.supplierRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Supplier not found"})
	}

	var req model.Supplier
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	supplier.Name = req.Name
	supplier.Contact = req.Contact
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	if userID := currentUserID(c); userID != nil {
		supplier.UpdatedBy = userID.String()
	}
	if err := h.supplierRepo.Update(supplier); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update supplier"})
	}
	return c.JSON(supplier)
}

// Delete deactivates a supplier; purchase history keeps pointing at them.
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier ID"})
	}
	updatedBy := ""
	if userID := currentUserID(c); userID != nil {
		updatedBy = userID.String()
	}
	if err := h.supplierRepo.Deactivate(id, updatedBy); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate supplier"})
	}
	return c.JSON(fiber.Map{"message": "Supplier deactivated"})
}
