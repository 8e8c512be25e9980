package repository

import (
	"time"

	"parley/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// LastActivity returns when (user, client, query) last hit the API.
// gorm.ErrRecordNotFound when it never has.
func (r *ActivityRepository) LastActivity(userID uint, clientName, query string) (time.Time, error) {
	var a models.UserActivity
	err := r.db.Where("user_id = ? AND client_name = ? AND query = ?", userID, clientName, query).First(&a).Error
	if err != nil {
		return time.Time{}, err
	}
	return a.LastVisit, nil
}

// Touch bumps the activity row for (user, client, query), creating it on
// first sight.
func (r *ActivityRepository) Touch(userID uint, clientName, query string, when time.Time) error {
	a := models.UserActivity{
		UserID:     userID,
		ClientName: clientName,
		Query:      query,
		LastVisit:  when,
		Count:      1,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "client_name"}, {Name: "query"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_visit": when,
			"count":      gorm.Expr("count + 1"),
		}),
	}).Create(&a).Error
}
