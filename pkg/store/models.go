package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type NoteModel struct {
	ID        string `gorm:"primaryKey"`
	OwnerID   string `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	AssetURL  string
	Meta      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

// NoteTagModel associates tags with notes in a normalized table. Tags are
// scoped per note, not deduplicated globally.
type NoteTagModel struct {
	NoteID string `gorm:"primaryKey"`
	Tag    string `gorm:"primaryKey"`
}

type UserSettingModel struct {
	OwnerID   string `gorm:"primaryKey"`
	Language  string `gorm:"not null"`
	UpdatedAt time.Time
}
