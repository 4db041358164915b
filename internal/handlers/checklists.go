package handlers

import (
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ChecklistHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewChecklistHandler(db *gorm.DB, activities *services.ActivityService) *ChecklistHandler {
	return &ChecklistHandler{DB: db, Activities: activities}
}

type createChecklistRequest struct {
	Title string  `json:"title"`
	Sort  float64 `json:"sort"`
}

func (h *ChecklistHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req createChecklistRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}

	checklist := models.Checklist{
		CardID: card.ID,
		Title:  req.Title,
		Sort:   req.Sort,
	}
	if err := h.DB.Create(&checklist).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create checklist")
	}

	activity := services.NewAddChecklistActivity(user, board, card, &checklist)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, checklist)
}

func (h *ChecklistHandler) ListForCard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var checklists []models.Checklist
	err := h.DB.Preload("Items").
		Where("card_id = ?", card.ID).
		Order("sort ASC").
		Find(&checklists).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list checklists")
	}

	return utils.Success(c, fiber.StatusOK, checklists)
}

type createChecklistItemRequest struct {
	Title string  `json:"title"`
	Sort  float64 `json:"sort"`
}

func (h *ChecklistHandler) AddItem(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	checklistID, err := parseUUIDParam(c, "checklistID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var checklist models.Checklist
	if err := h.DB.First(&checklist, "id = ? AND card_id = ?", checklistID, card.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "checklist not found")
	}

	var req createChecklistItemRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}

	item := models.ChecklistItem{
		ChecklistID: checklist.ID,
		CardID:      card.ID,
		Title:       req.Title,
		Sort:        req.Sort,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create checklist item")
	}

	activity := services.NewAddChecklistItemActivity(user, board, card, &checklist, &item)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, item)
}

type toggleChecklistItemRequest struct {
	IsFinished bool `json:"isFinished"`
}

func (h *ChecklistHandler) ToggleItem(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	itemID, err := parseUUIDParam(c, "itemID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var item models.ChecklistItem
	if err := h.DB.First(&item, "id = ? AND card_id = ?", itemID, card.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "checklist item not found")
	}

	var req toggleChecklistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.DB.Model(&item).Update("is_finished", req.IsFinished).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update checklist item")
	}
	item.IsFinished = req.IsFinished

	return utils.Success(c, fiber.StatusOK, item)
}
