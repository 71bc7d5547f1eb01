package handler

import (
	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingHandler struct {
	db          *gorm.DB
	settingRepo repository.SettingRepository
}

func NewSettingHandler(db *gorm.DB, settingRepo repository.SettingRepository) *SettingHandler {
	return &SettingHandler{db: db, settingRepo: settingRepo}
}

// List returns every settings row.
// GET /api/v1/settings
func (h *SettingHandler) List(c *fiber.Ctx) error {
	settings, err := h.settingRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to list settings"})
	}
	return c.JSON(fiber.Map{"settings": settings, "count": len(settings)})
}

type setSettingRequest struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
}

// Set upserts one setting. The balance and sequence keys are owned by the
// ledgers and cannot be written here.
// PUT /api/v1/settings
func (h *SettingHandler) Set(c *fiber.Ctx) error {
	var req setSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Key == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Key is required"})
	}
	if req.Key == model.KeyCashBalance {
		return c.Status(403).JSON(fiber.Map{"error": "The cash balance is managed by payments, expenses and reconciliation"})
	}
	if req.ValueType == "" {
		req.ValueType = model.SettingString
	}
	switch req.ValueType {
	case model.SettingString, model.SettingNumber, model.SettingBoolean, model.SettingJSON:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Invalid value_type"})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		return h.settingRepo.SetValue(tx, req.Key, req.Value, req.ValueType)
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save setting"})
	}
	return c.JSON(fiber.Map{"message": "Setting saved"})
}
