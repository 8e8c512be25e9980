package models

import (
	"time"

	"gorm.io/gorm"
)

// RealmEmoji is a custom emoji uploaded by a realm admin. Deactivated rows
// are kept so existing statuses that reference them stay renderable.
type RealmEmoji struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RealmID     uint           `gorm:"uniqueIndex:idx_realm_emoji_name;not null" json:"realm_id"`
	Name        string         `gorm:"uniqueIndex:idx_realm_emoji_name;size:64;not null" json:"name"`
	Code        string         `gorm:"size:24;not null" json:"code"`
	ImageURL    string         `gorm:"size:512;not null" json:"image_url"`
	AuthorID    uint           `gorm:"not null" json:"author_id"`
	Deactivated bool           `gorm:"default:false;index" json:"deactivated"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RealmEmoji) TableName() string {
	return "realm_emojis"
}
