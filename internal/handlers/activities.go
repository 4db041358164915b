package handlers

import (
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewActivityHandler(db *gorm.DB, activities *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{DB: db, Activities: activities}
}

func (h *ActivityHandler) ListForBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	p := utils.ParsePagination(c)
	activities, total, err := h.Activities.ListBoardActivities(c.Context(), board.ID, p)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.Paginated(c, activities, p.Page, p.Limit, total)
}

func (h *ActivityHandler) ListForCard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	p := utils.ParsePagination(c)
	activities, total, err := h.Activities.ListCardActivities(c.Context(), card.ID, p)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list activities")
	}

	return utils.Paginated(c, activities, p.Page, p.Limit, total)
}
