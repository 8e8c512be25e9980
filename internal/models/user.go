package models

import (
	"time"

	"parley/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RealmID      uint    `gorm:"uniqueIndex:idx_users_realm_email;not null" json:"realm_id"`
	Email        string  `gorm:"uniqueIndex:idx_users_realm_email;size:255;not null" json:"email"`
	FullName     string  `gorm:"size:128;not null;default:''" json:"full_name"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	Role         string  `gorm:"size:20;not null;index" json:"role"` // MEMBER | ADMIN
	GoogleID     *string `gorm:"uniqueIndex;size:255" json:"-"`      // nil for password signups (avoids duplicate '' on unique index)
	// BotType is nil for human users. Bots never have presence.
	BotType *string `gorm:"size:32" json:"bot_type,omitempty"`
	// PresenceEnabled lets a user hide their presence from other users.
	PresenceEnabled bool           `gorm:"default:true" json:"presence_enabled"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Realm Realm `gorm:"foreignKey:RealmID" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
func (u *User) IsBot() bool   { return u.BotType != nil }
