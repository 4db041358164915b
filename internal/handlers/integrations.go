package handlers

import (
	"strings"

	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntegrationHandler struct {
	DB *gorm.DB
}

func NewIntegrationHandler(db *gorm.DB) *IntegrationHandler {
	return &IntegrationHandler{DB: db}
}

type integrationRequest struct {
	BoardID    *uuid.UUID `json:"boardID"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Token      string     `json:"token"`
	Enabled    *bool      `json:"enabled"`
	Activities []string   `json:"activities"`
}

// Create registers an outgoing webhook. A request without a boardID
// creates a global integration, which only instance admins may do.
func (h *IntegrationHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	var req integrationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.URL = strings.TrimSpace(req.URL)
	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return utils.Error(c, fiber.StatusBadRequest, "url must be http or https")
	}

	if req.BoardID == nil {
		if !user.IsAdmin {
			return utils.Error(c, fiber.StatusForbidden, "global integrations require admin access")
		}
	} else {
		if _, err := loadBoardForUser(h.DB, *req.BoardID, user); err != nil {
			return respondBoardError(c, err)
		}
	}

	if len(req.Activities) == 0 {
		req.Activities = []string{models.IntegrationActivityAll}
	}

	integration := models.Integration{
		BoardID:     req.BoardID,
		CreatedByID: user.ID,
		Title:       req.Title,
		URL:         req.URL,
		Token:       req.Token,
		Enabled:     true,
		Activities:  req.Activities,
	}
	if req.Enabled != nil {
		integration.Enabled = *req.Enabled
	}

	if err := h.DB.Create(&integration).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create integration")
	}

	return utils.Success(c, fiber.StatusCreated, integration)
}

func (h *IntegrationHandler) ListForBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var integrations []models.Integration
	if err := h.DB.Where("board_id = ?", board.ID).Find(&integrations).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list integrations")
	}

	return utils.Success(c, fiber.StatusOK, integrations)
}

func (h *IntegrationHandler) ListGlobal(c *fiber.Ctx) error {
	var integrations []models.Integration
	if err := h.DB.Where("board_id IS NULL").Find(&integrations).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list integrations")
	}
	return utils.Success(c, fiber.StatusOK, integrations)
}

func (h *IntegrationHandler) loadForUser(c *fiber.Ctx) (*models.Integration, bool) {
	user := middleware.GetCurrentUser(c)
	integrationID, err := parseUUIDParam(c, "integrationID")
	if err != nil {
		utils.Error(c, fiber.StatusBadRequest, err.Error())
		return nil, false
	}

	var integration models.Integration
	if err := h.DB.First(&integration, "id = ?", integrationID).Error; err != nil {
		utils.Error(c, fiber.StatusNotFound, "integration not found")
		return nil, false
	}

	if integration.IsGlobal() {
		if !user.IsAdmin {
			utils.Error(c, fiber.StatusForbidden, "global integrations require admin access")
			return nil, false
		}
		return &integration, true
	}

	if _, err := loadBoardForUser(h.DB, *integration.BoardID, user); err != nil {
		respondBoardError(c, err)
		return nil, false
	}
	return &integration, true
}

func (h *IntegrationHandler) Update(c *fiber.Ctx) error {
	integration, ok := h.loadForUser(c)
	if !ok {
		return nil
	}

	var req integrationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.URL != "" {
		url := strings.TrimSpace(req.URL)
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return utils.Error(c, fiber.StatusBadRequest, "url must be http or https")
		}
		updates["url"] = url
	}
	if req.Token != "" {
		updates["token"] = req.Token
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.Activities != nil {
		updates["activities"] = req.Activities
	}

	if len(updates) == 0 {
		return utils.Success(c, fiber.StatusOK, integration)
	}

	if err := h.DB.Model(integration).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update integration")
	}

	return utils.Success(c, fiber.StatusOK, integration)
}

func (h *IntegrationHandler) Delete(c *fiber.Ctx) error {
	integration, ok := h.loadForUser(c)
	if !ok {
		return nil
	}

	if err := h.DB.Delete(integration).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to delete integration")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
