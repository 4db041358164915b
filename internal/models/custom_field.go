package models

import "github.com/google/uuid"

type CustomFieldType string

const (
	CustomFieldTypeText     CustomFieldType = "text"
	CustomFieldTypeNumber   CustomFieldType = "number"
	CustomFieldTypeDate     CustomFieldType = "date"
	CustomFieldTypeDropdown CustomFieldType = "dropdown"
	CustomFieldTypeCheckbox CustomFieldType = "checkbox"
)

type CustomField struct {
	BaseModel
	BoardID    uuid.UUID       `json:"boardID" gorm:"type:uuid;not null;index"`
	Name       string          `json:"name" gorm:"type:varchar(255);not null"`
	Type       CustomFieldType `json:"type" gorm:"type:varchar(20);not null;default:'text'"`
	ShowOnCard bool            `json:"showOnCard" gorm:"not null;default:false"`
}

func (CustomField) TableName() string {
	return "custom_fields"
}
