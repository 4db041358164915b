package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrIncompleteActivity rejects records missing one of the three fields
// every activity must carry.
var ErrIncompleteActivity = errors.New("activity requires activityType, userId and boardId")

type ActivityType string

const (
	ActivityCreateBoard       ActivityType = "createBoard"
	ActivityAddBoardMember    ActivityType = "addBoardMember"
	ActivityRemoveBoardMember ActivityType = "removeBoardMember"
	ActivityCreateList        ActivityType = "createList"
	ActivityArchivedList      ActivityType = "archivedList"
	ActivityCreateSwimlane    ActivityType = "createSwimlane"
	ActivityCreateCard        ActivityType = "createCard"
	ActivityMoveCard          ActivityType = "moveCard"
	ActivityMoveCardBoard     ActivityType = "moveCardBoard"
	ActivityArchivedCard      ActivityType = "archivedCard"
	ActivityRestoredCard      ActivityType = "restoredCard"
	ActivityJoinMember        ActivityType = "joinMember"
	ActivityUnjoinMember      ActivityType = "unjoinMember"
	ActivityJoinAssignee      ActivityType = "joinAssignee"
	ActivityUnjoinAssignee    ActivityType = "unjoinAssignee"
	ActivityAddedLabel        ActivityType = "addedLabel"
	ActivityRemovedLabel      ActivityType = "removedLabel"
	ActivitySetCustomField    ActivityType = "setCustomField"
	ActivityUnsetCustomField  ActivityType = "unsetCustomField"
	ActivityAddComment        ActivityType = "addComment"
	ActivityAddAttachment     ActivityType = "addAttachment"
	ActivityAddChecklist      ActivityType = "addChecklist"
	ActivityAddChecklistItem  ActivityType = "addChecklistItem"
	ActivityDueNow            ActivityType = "duenow"
	ActivityAlmostDue         ActivityType = "almostdue"
	ActivityPastDue           ActivityType = "pastdue"
)

// DateChangedActivityType names the activity for a schedule-date edit:
// "a-dueAt", "a-receivedAt", "a-startAt", "a-endAt". The field name
// doubles as the time.field snapshot so consumers can branch
// generically instead of per attribute.
func DateChangedActivityType(field string) ActivityType {
	return ActivityType("a-" + field)
}

// Activity is the immutable audit record of one user action. Storage is
// the flat legacy column set (the compatibility surface other tooling
// reads); the nested snapshot objects are derived views over the same
// columns, so the two forms can always be rebuilt from each other.
type Activity struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index"`
	Username     string       `json:"username,omitempty" gorm:"type:varchar(100)"`
	ActivityType ActivityType `json:"activityType" gorm:"type:varchar(50);not null;index"`

	BoardID   uuid.UUID `json:"boardId" gorm:"type:uuid;not null;index:idx_activities_board_created,priority:1"`
	BoardName string    `json:"boardName,omitempty" gorm:"type:varchar(255)"`

	OldBoardID   *uuid.UUID `json:"oldBoardId,omitempty" gorm:"type:uuid"`
	OldBoardName string     `json:"oldBoardName,omitempty" gorm:"type:varchar(255)"`

	SwimlaneID      *uuid.UUID `json:"swimlaneId,omitempty" gorm:"type:uuid"`
	SwimlaneName    string     `json:"swimlaneName,omitempty" gorm:"type:varchar(255)"`
	OldSwimlaneID   *uuid.UUID `json:"oldSwimlaneId,omitempty" gorm:"type:uuid"`
	OldSwimlaneName string     `json:"oldSwimlaneName,omitempty" gorm:"type:varchar(255)"`

	ListID      *uuid.UUID `json:"listId,omitempty" gorm:"type:uuid"`
	ListName    string     `json:"listName,omitempty" gorm:"type:varchar(255)"`
	OldListID   *uuid.UUID `json:"oldListId,omitempty" gorm:"type:uuid"`
	OldListName string     `json:"oldListName,omitempty" gorm:"type:varchar(255)"`

	CardID    *uuid.UUID `json:"cardId,omitempty" gorm:"type:uuid;index:idx_activities_card_created,priority:1"`
	CardTitle string     `json:"cardTitle,omitempty" gorm:"type:varchar(255)"`

	MemberID         *uuid.UUID `json:"memberId,omitempty" gorm:"type:uuid"`
	MemberUsername   string     `json:"memberUsername,omitempty" gorm:"type:varchar(100)"`
	AssigneeID       *uuid.UUID `json:"assigneeId,omitempty" gorm:"type:uuid"`
	AssigneeUsername string     `json:"assigneeUsername,omitempty" gorm:"type:varchar(100)"`

	LabelID    *uuid.UUID `json:"labelId,omitempty" gorm:"type:uuid"`
	LabelName  string     `json:"labelName,omitempty" gorm:"type:varchar(100)"`
	LabelColor string     `json:"labelColor,omitempty" gorm:"type:varchar(30)"`

	CommentID    *uuid.UUID `json:"commentId,omitempty" gorm:"type:uuid;index:idx_activities_comment,where:comment_id IS NOT NULL"`
	AttachmentID *uuid.UUID `json:"attachmentId,omitempty" gorm:"type:uuid;index:idx_activities_attachment,where:attachment_id IS NOT NULL"`

	AttachmentName string `json:"attachmentName,omitempty" gorm:"type:varchar(255)"`

	ChecklistID       *uuid.UUID `json:"checklistId,omitempty" gorm:"type:uuid"`
	ChecklistName     string     `json:"checklistName,omitempty" gorm:"type:varchar(255)"`
	ChecklistItemID   *uuid.UUID `json:"checklistItemId,omitempty" gorm:"type:uuid"`
	ChecklistItemName string     `json:"checklistItemName,omitempty" gorm:"type:varchar(255)"`

	CustomFieldID    *uuid.UUID `json:"customFieldId,omitempty" gorm:"type:uuid;index:idx_activities_custom_field,where:custom_field_id IS NOT NULL"`
	CustomFieldValue string     `json:"customFieldValue,omitempty" gorm:"type:text"`

	SubtaskID *uuid.UUID `json:"subtaskId,omitempty" gorm:"type:uuid"`

	TimeKey      string     `json:"timeKey,omitempty" gorm:"type:varchar(30)"`
	TimeValue    *time.Time `json:"timeValue,omitempty"`
	TimeOldValue *time.Time `json:"timeOldValue,omitempty"`

	SourceID     string `json:"sourceId,omitempty" gorm:"type:varchar(100)"`
	SourceSystem string `json:"sourceSystem,omitempty" gorm:"type:varchar(100)"`
	SourceURL    string `json:"sourceUrl,omitempty" gorm:"type:text"`

	CreatedAt  time.Time `json:"createdAt" gorm:"not null;index:idx_activities_created,sort:desc;index:idx_activities_board_created,priority:2,sort:desc;index:idx_activities_card_created,priority:2,sort:desc"`
	ModifiedAt time.Time `json:"modifiedAt" gorm:"not null;index:idx_activities_modified,sort:desc"`
}

func (Activity) TableName() string {
	return "activities"
}

// BeforeCreate stamps id and both timestamps and refuses structurally
// incomplete records. createdAt is never touched again after this.
func (a *Activity) BeforeCreate(_ *gorm.DB) error {
	if a.ActivityType == "" || a.UserID == uuid.Nil || a.BoardID == uuid.Nil {
		return ErrIncompleteActivity
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.ModifiedAt = a.CreatedAt
	return nil
}

// BeforeUpdate keeps the server authoritative for modifiedAt no matter
// what the caller supplied.
func (a *Activity) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("modified_at", time.Now().UTC())
	return nil
}

// EntitySnapshot is the point-in-time {id, title} copy of a board,
// list, swimlane, card or checklist entity. Snapshots are written at
// activity creation and never re-resolved for historical display.
type EntitySnapshot struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title,omitempty"`
}

type UserSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
}

type LabelSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name,omitempty"`
	Color string    `json:"color,omitempty"`
}

type CustomFieldSnapshot struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value,omitempty"`
}

type TimeSnapshot struct {
	Field    string     `json:"field"`
	Value    *time.Time `json:"value,omitempty"`
	OldValue *time.Time `json:"oldValue,omitempty"`
}

type SourceSnapshot struct {
	ID     string `json:"id"`
	System string `json:"system"`
	URL    string `json:"url,omitempty"`
}

func (a *Activity) BoardSnapshot() *EntitySnapshot {
	if a.BoardID == uuid.Nil {
		return nil
	}
	return &EntitySnapshot{ID: a.BoardID, Title: a.BoardName}
}

func (a *Activity) OldBoardSnapshot() *EntitySnapshot {
	return entitySnapshot(a.OldBoardID, a.OldBoardName)
}

func (a *Activity) CardSnapshot() *EntitySnapshot {
	return entitySnapshot(a.CardID, a.CardTitle)
}

func (a *Activity) ListSnapshot() *EntitySnapshot {
	return entitySnapshot(a.ListID, a.ListName)
}

func (a *Activity) OldListSnapshot() *EntitySnapshot {
	return entitySnapshot(a.OldListID, a.OldListName)
}

func (a *Activity) SwimlaneSnapshot() *EntitySnapshot {
	return entitySnapshot(a.SwimlaneID, a.SwimlaneName)
}

func (a *Activity) OldSwimlaneSnapshot() *EntitySnapshot {
	return entitySnapshot(a.OldSwimlaneID, a.OldSwimlaneName)
}

func (a *Activity) ChecklistSnapshot() *EntitySnapshot {
	return entitySnapshot(a.ChecklistID, a.ChecklistName)
}

func (a *Activity) ChecklistItemSnapshot() *EntitySnapshot {
	return entitySnapshot(a.ChecklistItemID, a.ChecklistItemName)
}

func (a *Activity) ActorSnapshot() *UserSnapshot {
	if a.UserID == uuid.Nil {
		return nil
	}
	return &UserSnapshot{ID: a.UserID, Username: a.Username}
}

func (a *Activity) MemberSnapshot() *UserSnapshot {
	if a.MemberID == nil {
		return nil
	}
	return &UserSnapshot{ID: *a.MemberID, Username: a.MemberUsername}
}

func (a *Activity) AssigneeSnapshot() *UserSnapshot {
	if a.AssigneeID == nil {
		return nil
	}
	return &UserSnapshot{ID: *a.AssigneeID, Username: a.AssigneeUsername}
}

func (a *Activity) LabelSnapshot() *LabelSnapshot {
	if a.LabelID == nil {
		return nil
	}
	return &LabelSnapshot{ID: *a.LabelID, Name: a.LabelName, Color: a.LabelColor}
}

func (a *Activity) CustomFieldSnapshot() *CustomFieldSnapshot {
	if a.CustomFieldID == nil {
		return nil
	}
	return &CustomFieldSnapshot{ID: *a.CustomFieldID, Value: a.CustomFieldValue}
}

func (a *Activity) TimeSnapshot() *TimeSnapshot {
	if a.TimeKey == "" && a.TimeValue == nil {
		return nil
	}
	return &TimeSnapshot{Field: a.TimeKey, Value: a.TimeValue, OldValue: a.TimeOldValue}
}

func (a *Activity) SourceSnapshot() *SourceSnapshot {
	if a.SourceID == "" && a.SourceSystem == "" {
		return nil
	}
	return &SourceSnapshot{ID: a.SourceID, System: a.SourceSystem, URL: a.SourceURL}
}

func entitySnapshot(id *uuid.UUID, title string) *EntitySnapshot {
	if id == nil {
		return nil
	}
	return &EntitySnapshot{ID: *id, Title: title}
}
