package handlers

import (
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CustomFieldHandler struct {
	DB *gorm.DB
}

func NewCustomFieldHandler(db *gorm.DB) *CustomFieldHandler {
	return &CustomFieldHandler{DB: db}
}

type createCustomFieldRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ShowOnCard bool   `json:"showOnCard"`
}

func (h *CustomFieldHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req createCustomFieldRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Type == "" {
		req.Type = string(models.CustomFieldTypeText)
	}

	field := models.CustomField{
		BoardID:    board.ID,
		Name:       req.Name,
		Type:       models.CustomFieldType(req.Type),
		ShowOnCard: req.ShowOnCard,
	}
	if err := h.DB.Create(&field).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create custom field")
	}

	return utils.Success(c, fiber.StatusCreated, field)
}

func (h *CustomFieldHandler) ListForBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var fields []models.CustomField
	if err := h.DB.Where("board_id = ?", board.ID).Order("created_at ASC").Find(&fields).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list custom fields")
	}

	return utils.Success(c, fiber.StatusOK, fields)
}

func (h *CustomFieldHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	fieldID, err := parseUUIDParam(c, "fieldID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	result := h.DB.Where("id = ? AND board_id = ?", fieldID, board.ID).Delete(&models.CustomField{})
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to delete custom field")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "custom field not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
