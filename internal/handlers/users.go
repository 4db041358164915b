package handlers

import (
	"strings"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// Search backs the member and @mention pickers. Matches username,
// email or full name, capped at 20 rows.
func (h *UserHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return utils.Error(c, fiber.StatusBadRequest, "query parameter q is required")
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var users []models.User
	err := h.DB.
		Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern, pattern).
		Limit(20).
		Find(&users).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "search failed")
	}

	return utils.Success(c, fiber.StatusOK, users)
}
