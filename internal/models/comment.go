package models

import "github.com/google/uuid"

type CardComment struct {
	BaseModel
	BoardID uuid.UUID `json:"boardID" gorm:"type:uuid;not null;index"`
	CardID  uuid.UUID `json:"cardID" gorm:"type:uuid;not null;index"`
	UserID  uuid.UUID `json:"userID" gorm:"type:uuid;not null;index"`
	Text    string    `json:"text" gorm:"type:text;not null"`
	User    User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (CardComment) TableName() string {
	return "card_comments"
}
