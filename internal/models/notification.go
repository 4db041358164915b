package models

import "github.com/google/uuid"

// Notification is one delivered fan-out result: a single user's copy of
// an activity message, kept until read.
type Notification struct {
	BaseModel
	UserID      uuid.UUID              `json:"userID" gorm:"type:uuid;not null;index"`
	ActivityID  uuid.UUID              `json:"activityID" gorm:"type:uuid;not null;index"`
	Title       string                 `json:"title" gorm:"type:varchar(100);not null"`
	Description string                 `json:"description" gorm:"type:varchar(100);not null"`
	Params      map[string]interface{} `json:"params,omitempty" gorm:"type:jsonb;serializer:json"`
	IsRead      bool                   `json:"isRead" gorm:"not null;default:false;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
