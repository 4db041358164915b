package handlers

import (
	"strings"

	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewCommentHandler(db *gorm.DB, activities *services.ActivityService) *CommentHandler {
	return &CommentHandler{DB: db, Activities: activities}
}

type createCommentRequest struct {
	Text string `json:"text"`
}

// Create posts a comment. The addComment activity it records is what
// triggers mention notifications for any @username in the text.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return utils.Error(c, fiber.StatusBadRequest, "text is required")
	}

	comment := models.CardComment{
		BoardID: board.ID,
		CardID:  card.ID,
		UserID:  user.ID,
		Text:    req.Text,
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create comment")
	}

	activity := services.NewAddCommentActivity(user, board, card, &comment)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, comment)
}

func (h *CommentHandler) ListForCard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var comments []models.CardComment
	err := h.DB.Preload("User").
		Where("card_id = ?", card.ID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list comments")
	}

	return utils.Success(c, fiber.StatusOK, comments)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	commentID, err := parseUUIDParam(c, "commentID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var comment models.CardComment
	if err := h.DB.First(&comment, "id = ? AND card_id = ?", commentID, card.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "comment not found")
	}
	if comment.UserID != user.ID && !user.IsAdmin {
		return utils.Error(c, fiber.StatusForbidden, "only the author can delete a comment")
	}

	if err := h.DB.Delete(&comment).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to delete comment")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
