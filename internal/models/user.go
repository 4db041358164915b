package models

type User struct {
	BaseModel
	Username     string  `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string  `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string  `json:"-" gorm:"type:text;not null"`
	FullName     string  `json:"fullName" gorm:"type:varchar(200)"`
	IsAdmin      bool    `json:"isAdmin" gorm:"not null;default:false"`
	AvatarURL    *string `json:"avatarURL,omitempty" gorm:"type:text"`
}

// GetDisplayName prefers the profile full name and falls back to the
// login username, matching what notification messages show.
func (u *User) GetDisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Emails returns the address list attached to notification params.
func (u *User) Emails() []string {
	if u.Email == "" {
		return nil
	}
	return []string{u.Email}
}
