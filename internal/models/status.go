package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus is the user's manual status override: away flag, short text and
// an optional emoji. Sticky until explicitly changed; independent of
// connectivity.
type UserStatus struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Away       bool   `gorm:"default:false" json:"away"`
	StatusText string `gorm:"size:60;not null;default:''" json:"status_text"`
	EmojiName  string `gorm:"size:64;not null;default:''" json:"emoji_name"`
	EmojiCode  string `gorm:"size:24;not null;default:''" json:"emoji_code"`
	EmojiType  string `gorm:"size:24;not null;default:'unicode_emoji'" json:"emoji_type"`
	// ClientName records which client performed the last update.
	ClientName string         `gorm:"size:64;not null;default:''" json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserStatus) TableName() string {
	return "user_status"
}
