package models

import "github.com/google/uuid"

// IntegrationActivityAll subscribes an integration to every activity
// description.
const IntegrationActivityAll = "all"

// Integration is an outgoing-webhook subscription. A nil BoardID marks
// the global integration that receives events from every board.
type Integration struct {
	BaseModel
	BoardID     *uuid.UUID `json:"boardID,omitempty" gorm:"type:uuid;index"`
	CreatedByID uuid.UUID  `json:"createdByID" gorm:"type:uuid;not null"`
	Title       string     `json:"title" gorm:"type:varchar(255)"`
	URL         string     `json:"url" gorm:"type:text;not null"`
	Token       string     `json:"-" gorm:"type:text"`
	Enabled     bool       `json:"enabled" gorm:"not null;default:true;index"`
	Activities  []string   `json:"activities" gorm:"serializer:json"`
}

func (Integration) TableName() string {
	return "integrations"
}

// IsGlobal reports whether this integration receives events from all
// boards rather than a single one.
func (i *Integration) IsGlobal() bool {
	return i.BoardID == nil
}

// SubscribesTo checks the activity filter list against a fan-out
// description. An empty list subscribes to nothing.
func (i *Integration) SubscribesTo(description string) bool {
	for _, activity := range i.Activities {
		if activity == description || activity == IntegrationActivityAll {
			return true
		}
	}
	return false
}
