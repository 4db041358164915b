package services

import (
	"time"

	"github.com/boardstack/backend/internal/models"
)

// Factory constructors. One per activity type, so records can only be
// minted through a shape that fills the slots that type needs. The
// board argument is always the primary entity's current board; cross
// board moves record the previous board separately.

func NewCreateBoardActivity(actor *models.User, board *models.Board) models.Activity {
	return NewActivityBuilder(models.ActivityCreateBoard, actor, board).Build()
}

func NewAddBoardMemberActivity(actor *models.User, board *models.Board, member *models.User) models.Activity {
	return NewActivityBuilder(models.ActivityAddBoardMember, actor, board).
		SetMember(member).
		Build()
}

func NewRemoveBoardMemberActivity(actor *models.User, board *models.Board, member *models.User) models.Activity {
	return NewActivityBuilder(models.ActivityRemoveBoardMember, actor, board).
		SetMember(member).
		Build()
}

func NewCreateListActivity(actor *models.User, board *models.Board, list *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityCreateList, actor, board).
		SetList(list).
		Build()
}

func NewArchivedListActivity(actor *models.User, board *models.Board, list *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityArchivedList, actor, board).
		SetList(list).
		Build()
}

func NewCreateSwimlaneActivity(actor *models.User, board *models.Board, swimlane *models.Swimlane) models.Activity {
	return NewActivityBuilder(models.ActivityCreateSwimlane, actor, board).
		SetSwimlane(swimlane).
		Build()
}

func NewCreateCardActivity(actor *models.User, board *models.Board, card *models.Card, swimlane *models.Swimlane, list *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityCreateCard, actor, board).
		SetCard(card).
		SetSwimlane(swimlane).
		SetList(list).
		Build()
}

func NewMoveCardActivity(actor *models.User, board *models.Board, card *models.Card, swimlane, oldSwimlane *models.Swimlane, list, oldList *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityMoveCard, actor, board).
		SetCard(card).
		SetSwimlane(swimlane).
		SetOldSwimlane(oldSwimlane).
		SetList(list).
		SetOldList(oldList).
		Build()
}

func NewMoveCardBoardActivity(actor *models.User, board, oldBoard *models.Board, card *models.Card, swimlane, oldSwimlane *models.Swimlane, oldList *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityMoveCardBoard, actor, board).
		SetCard(card).
		SetOldBoard(oldBoard).
		SetSwimlane(swimlane).
		SetOldSwimlane(oldSwimlane).
		SetOldList(oldList).
		Build()
}

func NewArchivedCardActivity(actor *models.User, board *models.Board, card *models.Card, swimlane *models.Swimlane, list *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityArchivedCard, actor, board).
		SetCard(card).
		SetSwimlane(swimlane).
		SetList(list).
		Build()
}

func NewRestoredCardActivity(actor *models.User, board *models.Board, card *models.Card, swimlane *models.Swimlane, list *models.List) models.Activity {
	return NewActivityBuilder(models.ActivityRestoredCard, actor, board).
		SetCard(card).
		SetSwimlane(swimlane).
		SetList(list).
		Build()
}

func NewJoinMemberActivity(actor *models.User, board *models.Board, card *models.Card, member *models.User) models.Activity {
	return NewActivityBuilder(models.ActivityJoinMember, actor, board).
		SetCard(card).
		SetMember(member).
		Build()
}

func NewUnjoinMemberActivity(actor *models.User, board *models.Board, card *models.Card, member *models.User) models.Activity {
	return NewActivityBuilder(models.ActivityUnjoinMember, actor, board).
		SetCard(card).
		SetMember(member).
		Build()
}

func NewJoinAssigneeActivity(actor *models.User, board *models.Board, card *models.Card, assignee *models.User) models.Activity {
	return NewActivityBuilder(models.ActivityJoinAssignee, actor, board).
		SetCard(card).
		SetAssignee(assignee).
		Build()
}

func NewUnjoinAssigneeActivity(actor *models.User, board *models.Board, card *models.Card, assignee *models.User) models.Activity {
	return NewActivityBuilder(models.ActivityUnjoinAssignee, actor, board).
		SetCard(card).
		SetAssignee(assignee).
		Build()
}

func NewAddedLabelActivity(actor *models.User, board *models.Board, card *models.Card, label *models.BoardLabel) models.Activity {
	return NewActivityBuilder(models.ActivityAddedLabel, actor, board).
		SetCard(card).
		SetLabel(label).
		Build()
}

func NewRemovedLabelActivity(actor *models.User, board *models.Board, card *models.Card, label *models.BoardLabel) models.Activity {
	return NewActivityBuilder(models.ActivityRemovedLabel, actor, board).
		SetCard(card).
		SetLabel(label).
		Build()
}

func NewSetCustomFieldActivity(actor *models.User, board *models.Board, card *models.Card, field *models.CustomField, value string) models.Activity {
	return NewActivityBuilder(models.ActivitySetCustomField, actor, board).
		SetCard(card).
		SetCustomField(field, value).
		Build()
}

func NewUnsetCustomFieldActivity(actor *models.User, board *models.Board, card *models.Card, field *models.CustomField) models.Activity {
	return NewActivityBuilder(models.ActivityUnsetCustomField, actor, board).
		SetCard(card).
		SetCustomField(field, "").
		Build()
}

func NewAddCommentActivity(actor *models.User, board *models.Board, card *models.Card, comment *models.CardComment) models.Activity {
	return NewActivityBuilder(models.ActivityAddComment, actor, board).
		SetCard(card).
		SetComment(comment).
		Build()
}

func NewAddAttachmentActivity(actor *models.User, board *models.Board, card *models.Card, attachment *models.Attachment) models.Activity {
	return NewActivityBuilder(models.ActivityAddAttachment, actor, board).
		SetCard(card).
		SetAttachment(attachment).
		Build()
}

func NewAddChecklistActivity(actor *models.User, board *models.Board, card *models.Card, checklist *models.Checklist) models.Activity {
	return NewActivityBuilder(models.ActivityAddChecklist, actor, board).
		SetCard(card).
		SetChecklist(checklist).
		Build()
}

func NewAddChecklistItemActivity(actor *models.User, board *models.Board, card *models.Card, checklist *models.Checklist, item *models.ChecklistItem) models.Activity {
	return NewActivityBuilder(models.ActivityAddChecklistItem, actor, board).
		SetCard(card).
		SetChecklist(checklist).
		SetChecklistItem(item).
		Build()
}

// NewDueReminderActivity covers the scheduler-emitted duenow, almostdue
// and pastdue records. They always describe the dueAt field.
func NewDueReminderActivity(activityType models.ActivityType, actor *models.User, board *models.Board, card *models.Card, swimlane *models.Swimlane, dueAt, oldDueAt *time.Time) models.Activity {
	return NewActivityBuilder(activityType, actor, board).
		SetCard(card).
		SetSwimlane(swimlane).
		SetTimeChange("dueAt", dueAt, oldDueAt).
		Build()
}

// NewCardDateChangedActivity records an edit to one of the four card
// schedule fields. The activity type is derived from the field name.
func NewCardDateChangedActivity(field string, actor *models.User, board *models.Board, card *models.Card, swimlane *models.Swimlane, value, oldValue *time.Time) models.Activity {
	return NewActivityBuilder(models.DateChangedActivityType(field), actor, board).
		SetCard(card).
		SetSwimlane(swimlane).
		SetTimeChange(field, value, oldValue).
		Build()
}
