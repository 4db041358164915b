package models

import "github.com/google/uuid"

type Checklist struct {
	BaseModel
	CardID uuid.UUID       `json:"cardID" gorm:"type:uuid;not null;index"`
	Title  string          `json:"title" gorm:"type:varchar(255);not null"`
	Sort   float64         `json:"sort" gorm:"not null;default:0"`
	Items  []ChecklistItem `json:"items,omitempty" gorm:"foreignKey:ChecklistID"`
}

func (Checklist) TableName() string {
	return "checklists"
}

type ChecklistItem struct {
	BaseModel
	ChecklistID uuid.UUID `json:"checklistID" gorm:"type:uuid;not null;index"`
	CardID      uuid.UUID `json:"cardID" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	IsFinished  bool      `json:"isFinished" gorm:"not null;default:false"`
	Sort        float64   `json:"sort" gorm:"not null;default:0"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
}
