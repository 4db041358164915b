package handlers

import (
	"errors"
	"fmt"

	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errNotBoardMember = errors.New("not a board member")

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// loadBoardForUser fetches a board with members, watchers and labels
// preloaded, and verifies the user may act on it: creator, active
// member, or instance admin. gorm.ErrRecordNotFound means no such
// board; errNotBoardMember means it exists but is off limits.
func loadBoardForUser(db *gorm.DB, boardID uuid.UUID, user *models.User) (*models.Board, error) {
	var board models.Board
	err := db.
		Preload("Members.User").
		Preload("Watchers").
		Preload("Labels").
		First(&board, "id = ?", boardID).Error
	if err != nil {
		return nil, err
	}

	if user.IsAdmin || board.CreatedByID == user.ID {
		return &board, nil
	}
	for _, member := range board.Members {
		if member.UserID == user.ID && member.IsActive {
			return &board, nil
		}
	}
	return nil, errNotBoardMember
}

// respondBoardError maps the loadBoardForUser failure modes onto the
// response envelope.
func respondBoardError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusNotFound, "board not found")
	}
	if errors.Is(err, errNotBoardMember) {
		return utils.Error(c, fiber.StatusForbidden, "not a board member")
	}
	return utils.Error(c, fiber.StatusInternalServerError, "failed to load board")
}

// loadCardForUser resolves the cardID route param and authorizes the
// caller against the card's board. On failure the response is already
// written and ok is false.
func loadCardForUser(c *fiber.Ctx, db *gorm.DB, user *models.User) (*models.Card, *models.Board, bool) {
	cardID, err := parseUUIDParam(c, "cardID")
	if err != nil {
		utils.Error(c, fiber.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	var card models.Card
	if err := db.First(&card, "id = ?", cardID).Error; err != nil {
		utils.Error(c, fiber.StatusNotFound, "card not found")
		return nil, nil, false
	}

	board, err := loadBoardForUser(db, card.BoardID, user)
	if err != nil {
		respondBoardError(c, err)
		return nil, nil, false
	}
	return &card, board, true
}

func removeID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func appendID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	for _, id := range ids {
		if id == target {
			return ids
		}
	}
	return append(ids, target)
}
