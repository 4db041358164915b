package handlers

import (
	"time"

	"github.com/boardstack/backend/internal/middleware"
	"github.com/boardstack/backend/internal/models"
	"github.com/boardstack/backend/internal/services"
	"github.com/boardstack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardHandler struct {
	DB         *gorm.DB
	Activities *services.ActivityService
}

func NewCardHandler(db *gorm.DB, activities *services.ActivityService) *CardHandler {
	return &CardHandler{DB: db, Activities: activities}
}

func (h *CardHandler) swimlaneByID(id uuid.UUID) *models.Swimlane {
	var swimlane models.Swimlane
	if err := h.DB.First(&swimlane, "id = ?", id).Error; err != nil {
		return nil
	}
	return &swimlane
}

func (h *CardHandler) listByID(id uuid.UUID) *models.List {
	var list models.List
	if err := h.DB.First(&list, "id = ?", id).Error; err != nil {
		return nil
	}
	return &list
}

type createCardRequest struct {
	ListID      uuid.UUID `json:"listID"`
	SwimlaneID  uuid.UUID `json:"swimlaneID"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Sort        float64   `json:"sort"`
}

func (h *CardHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var req createCardRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title is required")
	}

	var list models.List
	if err := h.DB.First(&list, "id = ? AND board_id = ?", req.ListID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "list does not belong to board")
	}
	var swimlane models.Swimlane
	if err := h.DB.First(&swimlane, "id = ? AND board_id = ?", req.SwimlaneID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "swimlane does not belong to board")
	}

	card := models.Card{
		BoardID:     board.ID,
		ListID:      list.ID,
		SwimlaneID:  swimlane.ID,
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     user.ID,
		Sort:        req.Sort,
	}
	if err := h.DB.Create(&card).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to create card")
	}

	activity := services.NewCreateCardActivity(user, board, &card, &swimlane, &list)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusCreated, card)
}

func (h *CardHandler) ListForBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	boardID, err := parseUUIDParam(c, "boardID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	board, err := loadBoardForUser(h.DB, boardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var cards []models.Card
	err = h.DB.Where("board_id = ? AND archived = ?", board.ID, false).
		Order("sort ASC").
		Find(&cards).Error
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to list cards")
	}

	return utils.Success(c, fiber.StatusOK, cards)
}

func (h *CardHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}
	return utils.Success(c, fiber.StatusOK, card)
}

type updateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Sort        *float64   `json:"sort"`
	ReceivedAt  *time.Time `json:"receivedAt"`
	StartAt     *time.Time `json:"startAt"`
	DueAt       *time.Time `json:"dueAt"`
	EndAt       *time.Time `json:"endAt"`
}

// Update edits card text, ordering and schedule dates. Each changed
// date emits its own a-<field> activity carrying old and new values.
func (h *CardHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req updateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Title != nil && *req.Title != "" {
		updates["title"] = *req.Title
		card.Title = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		card.Description = req.Description
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
		card.Sort = *req.Sort
	}

	type dateChange struct {
		field    string
		value    *time.Time
		oldValue *time.Time
	}
	var changes []dateChange
	applyDate := func(field string, incoming *time.Time, current *time.Time, set func(*time.Time)) {
		if incoming == nil {
			return
		}
		if current != nil && current.Equal(*incoming) {
			return
		}
		changes = append(changes, dateChange{field: field, value: incoming, oldValue: current})
		updates[field] = *incoming
		set(incoming)
	}
	applyDate("received_at", req.ReceivedAt, card.ReceivedAt, func(t *time.Time) { card.ReceivedAt = t })
	applyDate("start_at", req.StartAt, card.StartAt, func(t *time.Time) { card.StartAt = t })
	applyDate("due_at", req.DueAt, card.DueAt, func(t *time.Time) { card.DueAt = t })
	applyDate("end_at", req.EndAt, card.EndAt, func(t *time.Time) { card.EndAt = t })

	if len(updates) == 0 {
		return utils.Success(c, fiber.StatusOK, card)
	}

	if err := h.DB.Model(card).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update card")
	}

	columnToField := map[string]string{
		"received_at": "receivedAt",
		"start_at":    "startAt",
		"due_at":      "dueAt",
		"end_at":      "endAt",
	}
	swimlane := h.swimlaneByID(card.SwimlaneID)
	for _, change := range changes {
		activity := services.NewCardDateChangedActivity(
			columnToField[change.field], user, board, card, swimlane, change.value, change.oldValue)
		h.Activities.Record(c.Context(), &activity)
	}

	return utils.Success(c, fiber.StatusOK, card)
}

type moveCardRequest struct {
	ListID     uuid.UUID `json:"listID"`
	SwimlaneID uuid.UUID `json:"swimlaneID"`
	Sort       *float64  `json:"sort"`
}

func (h *CardHandler) Move(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req moveCardRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.ListID == uuid.Nil {
		req.ListID = card.ListID
	}
	if req.SwimlaneID == uuid.Nil {
		req.SwimlaneID = card.SwimlaneID
	}

	var list models.List
	if err := h.DB.First(&list, "id = ? AND board_id = ?", req.ListID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "list does not belong to board")
	}
	var swimlane models.Swimlane
	if err := h.DB.First(&swimlane, "id = ? AND board_id = ?", req.SwimlaneID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "swimlane does not belong to board")
	}

	oldList := h.listByID(card.ListID)
	oldSwimlane := h.swimlaneByID(card.SwimlaneID)

	updates := map[string]interface{}{
		"list_id":     list.ID,
		"swimlane_id": swimlane.ID,
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
	}
	if err := h.DB.Model(card).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to move card")
	}
	card.ListID = list.ID
	card.SwimlaneID = swimlane.ID

	activity := services.NewMoveCardActivity(user, board, card, &swimlane, oldSwimlane, &list, oldList)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

type moveCardBoardRequest struct {
	BoardID    uuid.UUID `json:"boardID"`
	ListID     uuid.UUID `json:"listID"`
	SwimlaneID uuid.UUID `json:"swimlaneID"`
}

// MoveToBoard relocates a card across boards. The activity is recorded
// against the destination board; the origin is kept in the oldBoard
// slots so its watchers still hear about the departure.
func (h *CardHandler) MoveToBoard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, oldBoard, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req moveCardBoardRequest
	if err := c.BodyParser(&req); err != nil || req.BoardID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "boardID is required")
	}

	targetBoard, err := loadBoardForUser(h.DB, req.BoardID, user)
	if err != nil {
		return respondBoardError(c, err)
	}

	var list models.List
	if err := h.DB.First(&list, "id = ? AND board_id = ?", req.ListID, targetBoard.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "list does not belong to target board")
	}
	var swimlane models.Swimlane
	if err := h.DB.First(&swimlane, "id = ? AND board_id = ?", req.SwimlaneID, targetBoard.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "swimlane does not belong to target board")
	}

	oldList := h.listByID(card.ListID)
	oldSwimlane := h.swimlaneByID(card.SwimlaneID)

	updates := map[string]interface{}{
		"board_id":    targetBoard.ID,
		"list_id":     list.ID,
		"swimlane_id": swimlane.ID,
	}
	if err := h.DB.Model(card).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to move card")
	}
	card.BoardID = targetBoard.ID
	card.ListID = list.ID
	card.SwimlaneID = swimlane.ID

	activity := services.NewMoveCardBoardActivity(user, targetBoard, oldBoard, card, &swimlane, oldSwimlane, oldList)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

func (h *CardHandler) Archive(c *fiber.Ctx) error {
	return h.setArchived(c, true)
}

func (h *CardHandler) Restore(c *fiber.Ctx) error {
	return h.setArchived(c, false)
}

func (h *CardHandler) setArchived(c *fiber.Ctx, archived bool) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	if err := h.DB.Model(card).Update("archived", archived).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update card")
	}
	card.Archived = archived

	swimlane := h.swimlaneByID(card.SwimlaneID)
	list := h.listByID(card.ListID)

	var activity models.Activity
	if archived {
		activity = services.NewArchivedCardActivity(user, board, card, swimlane, list)
	} else {
		activity = services.NewRestoredCardActivity(user, board, card, swimlane, list)
	}
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

type cardUserRequest struct {
	UserID uuid.UUID `json:"userID"`
}

func (h *CardHandler) AddMember(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req cardUserRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "userID is required")
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", req.UserID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}
	if card.HasMember(target.ID) {
		return utils.Success(c, fiber.StatusOK, card)
	}

	card.Members = append(card.Members, target.ID)
	if err := h.DB.Model(card).Update("members", card.Members).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to add member")
	}

	activity := services.NewJoinMemberActivity(user, board, card, &target)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

func (h *CardHandler) RemoveMember(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	memberID, err := parseUUIDParam(c, "userID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if !card.HasMember(memberID) {
		return utils.Error(c, fiber.StatusNotFound, "member not on card")
	}

	card.Members = removeID(card.Members, memberID)
	if err := h.DB.Model(card).Update("members", card.Members).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to remove member")
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", memberID).Error; err == nil {
		activity := services.NewUnjoinMemberActivity(user, board, card, &target)
		h.Activities.Record(c.Context(), &activity)
	}

	return utils.Success(c, fiber.StatusOK, card)
}

func (h *CardHandler) AddAssignee(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req cardUserRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "userID is required")
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", req.UserID).Error; err != nil {
		return utils.Error(c, fiber.StatusNotFound, "user not found")
	}
	if card.HasAssignee(target.ID) {
		return utils.Success(c, fiber.StatusOK, card)
	}

	card.Assignees = append(card.Assignees, target.ID)
	if err := h.DB.Model(card).Update("assignees", card.Assignees).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to add assignee")
	}

	activity := services.NewJoinAssigneeActivity(user, board, card, &target)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

func (h *CardHandler) RemoveAssignee(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	assigneeID, err := parseUUIDParam(c, "userID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if !card.HasAssignee(assigneeID) {
		return utils.Error(c, fiber.StatusNotFound, "assignee not on card")
	}

	card.Assignees = removeID(card.Assignees, assigneeID)
	if err := h.DB.Model(card).Update("assignees", card.Assignees).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to remove assignee")
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", assigneeID).Error; err == nil {
		activity := services.NewUnjoinAssigneeActivity(user, board, card, &target)
		h.Activities.Record(c.Context(), &activity)
	}

	return utils.Success(c, fiber.StatusOK, card)
}

type cardLabelRequest struct {
	LabelID uuid.UUID `json:"labelID"`
}

func (h *CardHandler) AddLabel(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req cardLabelRequest
	if err := c.BodyParser(&req); err != nil || req.LabelID == uuid.Nil {
		return utils.Error(c, fiber.StatusBadRequest, "labelID is required")
	}

	var label models.BoardLabel
	if err := h.DB.First(&label, "id = ? AND board_id = ?", req.LabelID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "label does not belong to board")
	}
	if card.HasLabel(label.ID) {
		return utils.Success(c, fiber.StatusOK, card)
	}

	card.LabelIDs = append(card.LabelIDs, label.ID)
	if err := h.DB.Model(card).Update("label_ids", card.LabelIDs).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to add label")
	}

	activity := services.NewAddedLabelActivity(user, board, card, &label)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

func (h *CardHandler) RemoveLabel(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	labelID, err := parseUUIDParam(c, "labelID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if !card.HasLabel(labelID) {
		return utils.Error(c, fiber.StatusNotFound, "label not on card")
	}

	card.LabelIDs = removeID(card.LabelIDs, labelID)
	if err := h.DB.Model(card).Update("label_ids", card.LabelIDs).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to remove label")
	}

	var label models.BoardLabel
	if err := h.DB.First(&label, "id = ?", labelID).Error; err == nil {
		activity := services.NewRemovedLabelActivity(user, board, card, &label)
		h.Activities.Record(c.Context(), &activity)
	}

	return utils.Success(c, fiber.StatusOK, card)
}

type setCustomFieldRequest struct {
	Value string `json:"value"`
}

func (h *CardHandler) SetCustomField(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	fieldID, err := parseUUIDParam(c, "fieldID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var field models.CustomField
	if err := h.DB.First(&field, "id = ? AND board_id = ?", fieldID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "custom field does not belong to board")
	}

	var req setCustomFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	replaced := false
	for i := range card.CustomFields {
		if card.CustomFields[i].ID == field.ID {
			card.CustomFields[i].Value = req.Value
			replaced = true
			break
		}
	}
	if !replaced {
		card.CustomFields = append(card.CustomFields, models.CardCustomFieldValue{ID: field.ID, Value: req.Value})
	}
	if err := h.DB.Model(card).Update("custom_fields", card.CustomFields).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to set custom field")
	}

	activity := services.NewSetCustomFieldActivity(user, board, card, &field, req.Value)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

func (h *CardHandler) UnsetCustomField(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, board, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	fieldID, err := parseUUIDParam(c, "fieldID")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var field models.CustomField
	if err := h.DB.First(&field, "id = ? AND board_id = ?", fieldID, board.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "custom field does not belong to board")
	}

	kept := make([]models.CardCustomFieldValue, 0, len(card.CustomFields))
	found := false
	for _, value := range card.CustomFields {
		if value.ID == field.ID {
			found = true
			continue
		}
		kept = append(kept, value)
	}
	if !found {
		return utils.Error(c, fiber.StatusNotFound, "custom field not set on card")
	}

	card.CustomFields = kept
	if err := h.DB.Model(card).Update("custom_fields", card.CustomFields).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to unset custom field")
	}

	activity := services.NewUnsetCustomFieldActivity(user, board, card, &field)
	h.Activities.Record(c.Context(), &activity)

	return utils.Success(c, fiber.StatusOK, card)
}

// Watch toggles the caller on the card's watcher array.
func (h *CardHandler) Watch(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	card, _, ok := loadCardForUser(c, h.DB, user)
	if !ok {
		return nil
	}

	var req watchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Watch {
		card.Watchers = appendID(card.Watchers, user.ID)
	} else {
		card.Watchers = removeID(card.Watchers, user.ID)
	}
	if err := h.DB.Model(card).Update("watchers", card.Watchers).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to update watchers")
	}

	return utils.Success(c, fiber.StatusOK, card)
}
