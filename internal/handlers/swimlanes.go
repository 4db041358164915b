package handlers

import (
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SwimlaneHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewSwimlaneHandler(db *gorm.DB, activities *services.ActivityService) *SwimlaneHandler {
	return &SwimlaneHandler{DB: db, Activities: activities}
}

type createSwimlaneRequest struct {
	Title string  `json:"title"`
	Sort  float64 `json:"sort"`
}

func (h *SwimlaneHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req createSwimlaneRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}

	swimlane := models.Swimlane{
		BoardID: board.ID,
		Title:   req.Title,
		Sort:    req.Sort,
	}
	if err := h.DB.Create(&swimlane).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create swimlane")
	}

	activity := services.NewCreateSwimlaneActivity(user, board, &swimlane)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, swimlane)
}

func (h *SwimlaneHandler) ListForBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var swimlanes []models.Swimlane
	err = h.DB.Where("board_id = ? AND archived = ?", board.ID, false).
		Order("sort ASC").
		Find(&swimlanes).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list swimlanes")
	}

	return utils.Success(c, fiber.StatusOK, swimlanes)
}

// Watch toggles the caller on the swimlane's watcher array.
func (h *SwimlaneHandler) Watch(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	swimlaneID, err := parseUUIDParam(c, "swimlaneID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var swimlane models.Swimlane
	if err := h.DB.First(&swimlane, "id = ? AND board_id = ?", swimlaneID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "swimlane not found")
	}

	var req watchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Watch {
		swimlane.Watchers = appendID(swimlane.Watchers, user.ID)
	} else {
		swimlane.Watchers = removeID(swimlane.Watchers, user.ID)
	}
	if err := h.DB.Model(&swimlane).Update("watchers", swimlane.Watchers).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update watchers")
	}

	return utils.Success(c, fiber.StatusOK, swimlane)
}
