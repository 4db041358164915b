package models

import (
	"fmt"

	"github.com/google/uuid"
)

type WatchLevel string

const (
	WatchLevelWatching WatchLevel = "watching"
	WatchLevelTracking WatchLevel = "tracking"
	WatchLevelMuted    WatchLevel = "muted"
)

func IsValidWatchLevel(value string) bool {
	switch WatchLevel(value) {
	case WatchLevelWatching, WatchLevelTracking, WatchLevelMuted:
		return true
	default:
		return false
	}
}

type Board struct {
	BaseModel
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	Color       string     `json:"color" gorm:"type:varchar(30);not null;default:'belize'"`
	Archived    bool       `json:"archived" gorm:"not null;default:false;index"`
	CreatedByID uuid.UUID  `json:"createdByID" gorm:"type:uuid;not null;index"`
	CreatedBy   User       `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID;references:ID"`
	Members     []BoardMember  `json:"members,omitempty" gorm:"foreignKey:BoardID"`
	Watchers    []BoardWatcher `json:"watchers,omitempty" gorm:"foreignKey:BoardID"`
	Labels      []BoardLabel   `json:"labels,omitempty" gorm:"foreignKey:BoardID"`
}

func (Board) TableName() string {
	return "boards"
}

// ActiveMembers filters the loaded membership list; callers must have
// preloaded Members.
func (b *Board) ActiveMembers() []BoardMember {
	active := make([]BoardMember, 0, len(b.Members))
	for _, member := range b.Members {
		if member.IsActive {
			active = append(active, member)
		}
	}
	return active
}

// WatchersAtLevel filters the loaded watcher list; callers must have
// preloaded Watchers.
func (b *Board) WatchersAtLevel(level WatchLevel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Watchers))
	for _, watcher := range b.Watchers {
		if watcher.Level == level {
			ids = append(ids, watcher.UserID)
		}
	}
	return ids
}

func (b *Board) AbsoluteURL(base string) string {
	return fmt.Sprintf("%s/b/%s", base, b.ID)
}

type BoardMember struct {
	BaseModel
	BoardID  uuid.UUID `json:"boardID" gorm:"type:uuid;not null;index;uniqueIndex:idx_board_member"`
	UserID   uuid.UUID `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_board_member"`
	IsAdmin  bool      `json:"isAdmin" gorm:"not null;default:false"`
	IsActive bool      `json:"isActive" gorm:"not null;default:true"`
	User     User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (BoardMember) TableName() string {
	return "board_members"
}

type BoardWatcher struct {
	BaseModel
	BoardID uuid.UUID  `json:"boardID" gorm:"type:uuid;not null;index;uniqueIndex:idx_board_watcher"`
	UserID  uuid.UUID  `json:"userID" gorm:"type:uuid;not null;index;uniqueIndex:idx_board_watcher"`
	Level   WatchLevel `json:"level" gorm:"type:varchar(20);not null;default:'watching'"`
}

func (BoardWatcher) TableName() string {
	return "board_watchers"
}

type BoardLabel struct {
	BaseModel
	BoardID uuid.UUID `json:"boardID" gorm:"type:uuid;not null;index"`
	Name    string    `json:"name" gorm:"type:varchar(100)"`
	Color   string    `json:"color" gorm:"type:varchar(30);not null"`
}

func (BoardLabel) TableName() string {
	return "board_labels"
}
