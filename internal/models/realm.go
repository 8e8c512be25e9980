package models

import (
	"time"

	"gorm.io/gorm"
)

type Realm struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Subdomain string `gorm:"uniqueIndex;size:64;not null" json:"subdomain"`
	Name      string `gorm:"size:128;not null" json:"name"`
	// Legacy mirror realms get the zephyr_mirror_active flag in heartbeat
	// responses.
	IsMirrorRealm bool `gorm:"default:false" json:"is_mirror_realm"`
	// PresenceLastUpdateID is the realm's presence checkpoint. Incremented
	// atomically with every presence write; clients poll with the last value
	// they saw.
	PresenceLastUpdateID int64          `gorm:"not null;default:0" json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Realm) TableName() string {
	return "realms"
}
