package handlers

import (
	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/logger"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewBoardHandler(db *gorm.DB, activities *services.ActivityService) *BoardHandler {
	return &BoardHandler{DB: db, Activities: activities}
}

type createBoardRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
}

func (h *BoardHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)

	var req createBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}
	if req.Color == "" {
		req.Color = "belize"
	}

	board := models.Board{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		CreatedByID: user.ID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&board).Error; err != nil {
			return err
		}
		member := models.BoardMember{
			BoardID:  board.ID,
			UserID:   user.ID,
			IsAdmin:  true,
			IsActive: true,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		logger.ErrorWithUser(user.ID.String(), "board_create_failed", err, nil)
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create board")
	}

	activity := services.NewCreateBoardActivity(user, &board)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, board)
}

func (h *BoardHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	p := utils.ParsePagination(c)

	query := h.DB.Model(&models.Board{}).
		Joins("LEFT JOIN board_members ON board_members.board_id = boards.id AND board_members.user_id = ? AND board_members.is_active = ?", user.ID, true).
		Where("boards.created_by_id = ? OR board_members.id IS NOT NULL", user.ID).
		Distinct()

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list boards")
	}

	var boards []models.Board
	err := utils.ApplyPagination(query.Order("boards.created_at DESC"), p).Find(&boards).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list boards")
	}

	return utils.Paginated(c, boards, p.Page, p.Limit, total)
}

func (h *BoardHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, board)
}

type updateBoardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Archived    *bool   `json:"archived"`
}

func (h *BoardHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req updateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != nil && *req.Title != "" {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Color != nil && *req.Color != "" {
		updates["color"] = *req.Color
	}
	if req.Archived != nil {
		updates["archived"] = *req.Archived
	}
	if len(updates) == 0 {
		return utils.Success(c, fiber.StatusOK, board)
	}

	if err := h.DB.Model(board).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update board")
	}
	return utils.Success(c, fiber.StatusOK, board)
}

type addBoardMemberRequest struct {
	UserID  uuid.UUID `json:"userID"`
	IsAdmin bool      `json:"isAdmin"`
}

func (h *BoardHandler) AddMember(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req addBoardMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "userID is required")
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", req.UserID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}

	var member models.BoardMember
	err = h.DB.Where("board_id = ? AND user_id = ?", board.ID, target.ID).First(&member).Error
	if err == nil {
		member.IsActive = true
		member.IsAdmin = req.IsAdmin
		if err := h.DB.Save(&member).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed to add member")
		}
	} else {
		member = models.BoardMember{
			BoardID:  board.ID,
			UserID:   target.ID,
			IsAdmin:  req.IsAdmin,
			IsActive: true,
		}
		if err := h.DB.Create(&member).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed to add member")
		}
	}

	activity := services.NewAddBoardMemberActivity(user, board, &target)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, member)
}

func (h *BoardHandler) RemoveMember(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	memberID, err := parseUUIDParam(c, "userID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	result := h.DB.Model(&models.BoardMember{}).
		Where("board_id = ? AND user_id = ?", board.ID, memberID).
		Update("is_active", false)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to remove member")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "member not found")
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", memberID).Error; err == nil {
		activity := services.NewRemoveBoardMemberActivity(user, board, &target)
		h.Activities.Record(c.Context(), &activity)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"removed": true})
}

type watchBoardRequest struct {
	Level string `json:"level"`
}

// SetWatchLevel upserts the caller's watch entry on the board:
// watching, tracking or muted.
func (h *BoardHandler) SetWatchLevel(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req watchBoardRequest
	if err := c.BodyParser(&req); err != nil || !models.IsValidWatchLevel(req.Level) {
		return utils.Error(c, fiber.StatusBadRequest, "level must be watching, tracking or muted")
	}

	var watcher models.BoardWatcher
	err = h.DB.Where("board_id = ? AND user_id = ?", board.ID, user.ID).First(&watcher).Error
	if err == nil {
		watcher.Level = models.WatchLevel(req.Level)
		err = h.DB.Save(&watcher).Error
	} else {
		watcher = models.BoardWatcher{
			BoardID: board.ID,
			UserID:  user.ID,
			Level:   models.WatchLevel(req.Level),
		}
		err = h.DB.Create(&watcher).Error
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to set watch level")
	}

	return utils.Success(c, fiber.StatusOK, watcher)
}

type createLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *BoardHandler) CreateLabel(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req createLabelRequest
	if err := c.BodyParser(&req); err != nil || req.Color == "" {
		return utils.Error(c, fiber.StatusBadRequest, "color is required")
	}

	label := models.BoardLabel{
		BoardID: board.ID,
		Name:    req.Name,
		Color:   req.Color,
	}
	if err := h.DB.Create(&label).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create label")
	}

	return utils.Success(c, fiber.StatusCreated, label)
}
