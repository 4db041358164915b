package models

import "github.com/google/uuid"

type List struct {
	BaseModel
	BoardID  uuid.UUID   `json:"boardID" gorm:"type:uuid;not null;index"`
	Title    string      `json:"title" gorm:"type:varchar(255);not null"`
	Archived bool        `json:"archived" gorm:"not null;default:false"`
	Sort     float64     `json:"sort" gorm:"not null;default:0"`
	Watchers []uuid.UUID `json:"watchers" gorm:"serializer:json"`
	Board    Board       `json:"-" gorm:"foreignKey:BoardID;references:ID"`
}

func (List) TableName() string {
	return "lists"
}
