package models

import (
	"time"
)

// UserActivity tracks the last time a (user, client, query) combination hit
// the API. The presence core only reads it for the mirror-realm special case;
// writes happen in the API middleware.
type UserActivity struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_activity_user_client_query;not null" json:"user_id"`
	ClientName string    `gorm:"uniqueIndex:idx_activity_user_client_query;size:64;not null" json:"client_name"`
	Query      string    `gorm:"uniqueIndex:idx_activity_user_client_query;size:128;not null" json:"query"`
	LastVisit  time.Time `gorm:"not null;index" json:"last_visit"`
	Count      int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserActivity) TableName() string {
	return "user_activity"
}
