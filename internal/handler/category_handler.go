package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryHandler(categoryRepo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// List returns all categories.
// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list categories"})
	}
	return c.JSON(fiber.Map{"categories": categories, "count": len(categories)})
}

// Create registers a category. Names are unique.
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&category); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}
	if existing, _ := h.categoryRepo.FindByName(category.Name); existing != nil {
		return c.Status(409).JSON(fiber.Map{"error": "Category name already exists"})
	}

	if userID := currentUserID(c); userID != nil {
		category.CreatedBy = userID.String()
	}
	if err := h.categoryRepo.Create(&category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create category"})
	}
	return c.Status(201).JSON(category)
}

// Update renames a category.
// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}
	category, err := h.categoryRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Category not found"})
	}

	var req model.Category
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	category.Name = req.Name
	category.Description = req.Description
	if userID := currentUserID(c); userID != nil {
		category.UpdatedBy = userID.String()
	}
	if err := h.categoryRepo.Update(category); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update category"})
	}
	return c.JSON(category)
}

// Delete removes a category; products keep a dangling reference set to null
// by the FK.
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}
	if err := h.categoryRepo.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete category"})
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
