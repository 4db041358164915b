package services

import (
	"time"

	"github.com/boardstack/backend/internal/models"
	"github.com/google/uuid"
)

// ActivityBuilder assembles one activity record slot by slot. Every
// setter has two shapes: one taking the live entity, which snapshots
// both id and display text, and an ID variant for callers that only
// hold the identifier. Setters overwrite their slot, so repeating one
// is harmless. Nil entities are ignored.
type ActivityBuilder struct {
	activity models.Activity
}

func NewActivityBuilder(activityType models.ActivityType, actor *models.User, board *models.Board) *ActivityBuilder {
	b := &ActivityBuilder{}
	b.activity.ActivityType = activityType
	b.SetActor(actor)
	b.SetBoard(board)
	return b
}

func (b *ActivityBuilder) Build() models.Activity {
	return b.activity
}

func (b *ActivityBuilder) SetActor(user *models.User) *ActivityBuilder {
	if user == nil {
		return b
	}
	b.activity.UserID = user.ID
	b.activity.Username = user.Username
	return b
}

func (b *ActivityBuilder) SetActorID(id uuid.UUID) *ActivityBuilder {
	b.activity.UserID = id
	return b
}

func (b *ActivityBuilder) SetBoard(board *models.Board) *ActivityBuilder {
	if board == nil {
		return b
	}
	b.activity.BoardID = board.ID
	b.activity.BoardName = board.Title
	return b
}

func (b *ActivityBuilder) SetBoardID(id uuid.UUID) *ActivityBuilder {
	b.activity.BoardID = id
	return b
}

func (b *ActivityBuilder) SetOldBoard(board *models.Board) *ActivityBuilder {
	if board == nil {
		return b
	}
	id := board.ID
	b.activity.OldBoardID = &id
	b.activity.OldBoardName = board.Title
	return b
}

func (b *ActivityBuilder) SetOldBoardID(id uuid.UUID) *ActivityBuilder {
	b.activity.OldBoardID = &id
	return b
}

func (b *ActivityBuilder) SetCard(card *models.Card) *ActivityBuilder {
	if card == nil {
		return b
	}
	id := card.ID
	b.activity.CardID = &id
	b.activity.CardTitle = card.Title
	return b
}

func (b *ActivityBuilder) SetCardID(id uuid.UUID) *ActivityBuilder {
	b.activity.CardID = &id
	return b
}

func (b *ActivityBuilder) SetList(list *models.List) *ActivityBuilder {
	if list == nil {
		return b
	}
	id := list.ID
	b.activity.ListID = &id
	b.activity.ListName = list.Title
	return b
}

func (b *ActivityBuilder) SetListID(id uuid.UUID) *ActivityBuilder {
	b.activity.ListID = &id
	return b
}

func (b *ActivityBuilder) SetOldList(list *models.List) *ActivityBuilder {
	if list == nil {
		return b
	}
	id := list.ID
	b.activity.OldListID = &id
	b.activity.OldListName = list.Title
	return b
}

func (b *ActivityBuilder) SetOldListID(id uuid.UUID) *ActivityBuilder {
	b.activity.OldListID = &id
	return b
}

func (b *ActivityBuilder) SetSwimlane(swimlane *models.Swimlane) *ActivityBuilder {
	if swimlane == nil {
		return b
	}
	id := swimlane.ID
	b.activity.SwimlaneID = &id
	b.activity.SwimlaneName = swimlane.Title
	return b
}

func (b *ActivityBuilder) SetSwimlaneID(id uuid.UUID) *ActivityBuilder {
	b.activity.SwimlaneID = &id
	return b
}

func (b *ActivityBuilder) SetOldSwimlane(swimlane *models.Swimlane) *ActivityBuilder {
	if swimlane == nil {
		return b
	}
	id := swimlane.ID
	b.activity.OldSwimlaneID = &id
	b.activity.OldSwimlaneName = swimlane.Title
	return b
}

func (b *ActivityBuilder) SetOldSwimlaneID(id uuid.UUID) *ActivityBuilder {
	b.activity.OldSwimlaneID = &id
	return b
}

func (b *ActivityBuilder) SetMember(member *models.User) *ActivityBuilder {
	if member == nil {
		return b
	}
	id := member.ID
	b.activity.MemberID = &id
	b.activity.MemberUsername = member.Username
	return b
}

func (b *ActivityBuilder) SetMemberID(id uuid.UUID) *ActivityBuilder {
	b.activity.MemberID = &id
	return b
}

func (b *ActivityBuilder) SetAssignee(assignee *models.User) *ActivityBuilder {
	if assignee == nil {
		return b
	}
	id := assignee.ID
	b.activity.AssigneeID = &id
	b.activity.AssigneeUsername = assignee.Username
	return b
}

func (b *ActivityBuilder) SetAssigneeID(id uuid.UUID) *ActivityBuilder {
	b.activity.AssigneeID = &id
	return b
}

func (b *ActivityBuilder) SetLabel(label *models.BoardLabel) *ActivityBuilder {
	if label == nil {
		return b
	}
	id := label.ID
	b.activity.LabelID = &id
	b.activity.LabelName = label.Name
	b.activity.LabelColor = label.Color
	return b
}

func (b *ActivityBuilder) SetLabelID(id uuid.UUID) *ActivityBuilder {
	b.activity.LabelID = &id
	return b
}

func (b *ActivityBuilder) SetComment(comment *models.CardComment) *ActivityBuilder {
	if comment == nil {
		return b
	}
	id := comment.ID
	b.activity.CommentID = &id
	return b
}

func (b *ActivityBuilder) SetCommentID(id uuid.UUID) *ActivityBuilder {
	b.activity.CommentID = &id
	return b
}

func (b *ActivityBuilder) SetAttachment(attachment *models.Attachment) *ActivityBuilder {
	if attachment == nil {
		return b
	}
	id := attachment.ID
	b.activity.AttachmentID = &id
	b.activity.AttachmentName = attachment.OriginalName
	return b
}

func (b *ActivityBuilder) SetAttachmentID(id uuid.UUID) *ActivityBuilder {
	b.activity.AttachmentID = &id
	return b
}

func (b *ActivityBuilder) SetChecklist(checklist *models.Checklist) *ActivityBuilder {
	if checklist == nil {
		return b
	}
	id := checklist.ID
	b.activity.ChecklistID = &id
	b.activity.ChecklistName = checklist.Title
	return b
}

func (b *ActivityBuilder) SetChecklistID(id uuid.UUID) *ActivityBuilder {
	b.activity.ChecklistID = &id
	return b
}

func (b *ActivityBuilder) SetChecklistItem(item *models.ChecklistItem) *ActivityBuilder {
	if item == nil {
		return b
	}
	id := item.ID
	b.activity.ChecklistItemID = &id
	b.activity.ChecklistItemName = item.Title
	return b
}

func (b *ActivityBuilder) SetChecklistItemID(id uuid.UUID) *ActivityBuilder {
	b.activity.ChecklistItemID = &id
	return b
}

func (b *ActivityBuilder) SetCustomField(field *models.CustomField, value string) *ActivityBuilder {
	if field == nil {
		return b
	}
	id := field.ID
	b.activity.CustomFieldID = &id
	b.activity.CustomFieldValue = value
	return b
}

func (b *ActivityBuilder) SetCustomFieldID(id uuid.UUID) *ActivityBuilder {
	b.activity.CustomFieldID = &id
	return b
}

func (b *ActivityBuilder) SetSubtaskID(id uuid.UUID) *ActivityBuilder {
	b.activity.SubtaskID = &id
	return b
}

// SetTime records a schedule fact without a previous value. Use
// SetTimeChange when the old value is known; a nil old value there
// still marks the slot as a change from nothing.
func (b *ActivityBuilder) SetTime(field string, value *time.Time) *ActivityBuilder {
	b.activity.TimeKey = field
	b.activity.TimeValue = value
	return b
}

func (b *ActivityBuilder) SetTimeChange(field string, value, oldValue *time.Time) *ActivityBuilder {
	b.activity.TimeKey = field
	b.activity.TimeValue = value
	b.activity.TimeOldValue = oldValue
	return b
}

func (b *ActivityBuilder) SetSource(id, system, url string) *ActivityBuilder {
	b.activity.SourceID = id
	b.activity.SourceSystem = system
	b.activity.SourceURL = url
	return b
}
