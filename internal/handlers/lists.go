package handlers

import (
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ListHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewListHandler(db *gorm.DB, activities *services.ActivityService) *ListHandler {
	return &ListHandler{DB: db, Activities: activities}
}

type createListRequest struct {
	Title string  `json:"title"`
	Sort  float64 `json:"sort"`
}

func (h *ListHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req createListRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}

	list := models.List{
		BoardID: board.ID,
		Title:   req.Title,
		Sort:    req.Sort,
	}
	if err := h.DB.Create(&list).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create list")
	}

	activity := services.NewCreateListActivity(user, board, &list)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, list)
}

func (h *ListHandler) ListForBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var lists []models.List
	err = h.DB.Where("board_id = ? AND archived = ?", board.ID, false).
		Order("sort ASC").
		Find(&lists).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list lists")
	}

	return utils.Success(c, fiber.StatusOK, lists)
}

func (h *ListHandler) Archive(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	listID, err := parseUUIDParam(c, "listID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var list models.List
	if err := h.DB.First(&list, "id = ? AND board_id = ?", listID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "list not found")
	}

	if err := h.DB.Model(&list).Update("archived", true).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to archive list")
	}

	activity := services.NewArchivedListActivity(user, board, &list)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, list)
}

type watchRequest struct {
	Watch bool `json:"watch"`
}

// Watch toggles the caller on the list's watcher array.
func (h *ListHandler) Watch(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	listID, err := parseUUIDParam(c, "listID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var list models.List
	if err := h.DB.First(&list, "id = ? AND board_id = ?", listID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "list not found")
	}

	var req watchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Watch {
		list.Watchers = appendID(list.Watchers, user.ID)
	} else {
		list.Watchers = removeID(list.Watchers, user.ID)
	}
	if err := h.DB.Model(&list).Update("watchers", list.Watchers).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update watchers")
	}

	return utils.Success(c, fiber.StatusOK, list)
}
