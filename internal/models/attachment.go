package models

import "github.com/google/uuid"

type Attachment struct {
	BaseModel
	BoardID      uuid.UUID `json:"boardID" gorm:"type:uuid;not null;index"`
	CardID       uuid.UUID `json:"cardID" gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID `json:"userID" gorm:"type:uuid;not null"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255);not null"`
	MimeType     string    `json:"mimeType" gorm:"type:varchar(255);not null"`
	Size         int64     `json:"size" gorm:"not null;default:0"`
	StoragePath  string    `json:"-" gorm:"type:text;not null"`
	IsCover      bool      `json:"isCover" gorm:"not null;default:false"`
}

func (Attachment) TableName() string {
	return "attachments"
}
