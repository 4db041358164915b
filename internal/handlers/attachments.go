package handlers

import (
	"fmt"
	"time"

	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/internal/storage"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxAttachmentSize = 50 << 20

type AttachmentHandler struct {
	DB         *gorm.DB
	Storage    *storage.MinIOClient
	Activities *services.ActivityService
}

func NewAttachmentHandler(db *gorm.DB, store *storage.MinIOClient, activities *services.ActivityService) *AttachmentHandler {
	return &AttachmentHandler{DB: db, Storage: store, Activities: activities}
}

func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxAttachmentSize {
		return utils.Error(c, fiber.StatusRequestEntityTooLarge, "file exceeds 50MB limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachmentID := uuid.New()
	objectName := fmt.Sprintf("%s/%s/%s", board.ID, card.ID, attachmentID)

	file, err := fileHeader.Open()
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer file.Close()

	if err := h.Storage.Upload(c.Context(), objectName, file, fileHeader.Size, contentType); err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to store attachment")
	}

	attachment := models.Attachment{
		BaseModel:    models.BaseModel{ID: attachmentID},
		BoardID:      board.ID,
		CardID:       card.ID,
		UserID:       user.ID,
		OriginalName: fileHeader.Filename,
		MimeType:     contentType,
		Size:         fileHeader.Size,
		StoragePath:  objectName,
	}
	if err := h.DB.Create(&attachment).Error; err != nil {
		logger.ErrorWithUser(user.ID.String(), "attachment_metadata_failed", err, map[string]interface{}{
			"object_name": objectName,
		})
		return utils.Error(c, fiber.StatusInternalServerError, "failed to save attachment")
	}

	activity := services.NewAddAttachmentActivity(user, board, card, &attachment)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, attachment)
}

// Download answers with a short-lived presigned URL instead of
// proxying the object body through the API.
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	attachmentID, err := parseUUIDParam(c, "attachmentID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var attachment models.Attachment
	if err := h.DB.First(&attachment, "id = ? AND card_id = ?", attachmentID, card.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "attachment not found")
	}

	url, err := h.Storage.PresignedGetURL(c.Context(), attachment.StoragePath, 15*time.Minute, attachment.OriginalName)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to generate download link")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"url":       url,
		"expiresIn": int((15 * time.Minute).Seconds()),
	})
}

func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	attachmentID, err := parseUUIDParam(c, "attachmentID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var attachment models.Attachment
	if err := h.DB.First(&attachment, "id = ? AND card_id = ?", attachmentID, card.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "attachment not found")
	}
	if attachment.UserID != user.ID && !user.IsAdmin {
		return utils.Error(c, fiber.StatusForbidden, "only the uploader can delete an attachment")
	}

	if err := h.Storage.Delete(c.Context(), attachment.StoragePath); err != nil {
		logger.Warn("attachment_object_delete_failed", map[string]interface{}{
			"object_name": attachment.StoragePath,
		})
	}
	if err := h.DB.Delete(&attachment).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to delete attachment")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *AttachmentHandler) ListForCard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var attachments []models.Attachment
	err := h.DB.Where("card_id = ?", card.ID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list attachments")
	}

	return utils.Success(c, fiber.StatusOK, attachments)
}
