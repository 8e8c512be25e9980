package models

import (
	"time"
)

// UserPresence is one row per (user, client name), overwritten on every
// heartbeat from that client.
type UserPresence struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RealmID    uint      `gorm:"not null;index:idx_presence_realm_update" json:"realm_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_presence_user_client;not null" json:"user_id"`
	ClientName string    `gorm:"uniqueIndex:idx_presence_user_client;size:64;not null" json:"client_name"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	Status     string    `gorm:"size:10;not null" json:"status"` // ACTIVE | IDLE
	Pushable   bool      `gorm:"default:false" json:"pushable"`
	// LastUpdateID is the realm presence checkpoint assigned to this write.
	LastUpdateID int64     `gorm:"not null;index:idx_presence_realm_update" json:"last_update_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserPresence) TableName() string {
	return "user_presence"
}
