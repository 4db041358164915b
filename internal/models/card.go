package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardCustomFieldValue is the per-card value of a board-level custom
// field definition.
type CardCustomFieldValue struct {
	ID    uuid.UUID `json:"id"`
	Value string    `json:"value"`
}

type Card struct {
	BaseModel
	BoardID     uuid.UUID `json:"boardID" gorm:"type:uuid;not null;index"`
	ListID      uuid.UUID `json:"listID" gorm:"type:uuid;not null;index"`
	SwimlaneID  uuid.UUID `json:"swimlaneID" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	OwnerID     uuid.UUID `json:"ownerID" gorm:"type:uuid;not null;index"`
	Archived    bool      `json:"archived" gorm:"not null;default:false;index"`
	Sort        float64   `json:"sort" gorm:"not null;default:0"`

	Members      []uuid.UUID            `json:"members" gorm:"serializer:json"`
	Assignees    []uuid.UUID            `json:"assignees" gorm:"serializer:json"`
	Watchers     []uuid.UUID            `json:"watchers" gorm:"serializer:json"`
	LabelIDs     []uuid.UUID            `json:"labelIDs" gorm:"serializer:json"`
	CustomFields []CardCustomFieldValue `json:"customFields" gorm:"serializer:json"`

	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
	StartAt    *time.Time `json:"startAt,omitempty"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
	EndAt      *time.Time `json:"endAt,omitempty"`

	Board    Board    `json:"-" gorm:"foreignKey:BoardID;references:ID"`
	List     List     `json:"-" gorm:"foreignKey:ListID;references:ID"`
	Swimlane Swimlane `json:"-" gorm:"foreignKey:SwimlaneID;references:ID"`
	Owner    User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

func (Card) TableName() string {
	return "cards"
}

func (c *Card) AbsoluteURL(base string) string {
	return fmt.Sprintf("%s/b/%s/c/%s", base, c.BoardID, c.ID)
}

func (c *Card) HasMember(userID uuid.UUID) bool {
	return containsID(c.Members, userID)
}

func (c *Card) HasAssignee(userID uuid.UUID) bool {
	return containsID(c.Assignees, userID)
}

func (c *Card) HasLabel(labelID uuid.UUID) bool {
	return containsID(c.LabelIDs, labelID)
}

// DateField reads one of the four schedule dates by attribute name.
// Unknown names return nil.
func (c *Card) DateField(field string) *time.Time {
	switch field {
	case "receivedAt":
		return c.ReceivedAt
	case "startAt":
		return c.StartAt
	case "dueAt":
		return c.DueAt
	case "endAt":
		return c.EndAt
	default:
		return nil
	}
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
