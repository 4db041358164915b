package handlers

import (
	"errors"

	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	p := utils.ParsePagination(c)

	notifications, total, err := h.Notifications.ListForUser(c.Context(), user.ID, p)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.Paginated(c, notifications, p.Page, p.Limit, total)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	count, err := h.Notifications.UnreadCount(c.Context(), user.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to count notifications")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	notificationID, err := parseUUIDParam(c, "notificationID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	err = h.Notifications.MarkRead(c.Context(), user.ID, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "notification not found")
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to mark notification read")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"read": true})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	updated, err := h.Notifications.MarkAllRead(c.Context(), user.ID)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to mark notifications read")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"updated": updated})
}
