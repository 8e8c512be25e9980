package repository

import (
	"time"

	"parley/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// Upsert overwrites the presence row for (user, client) and advances the
// realm's presence checkpoint in the same transaction, so a reader can never
// observe a checkpoint without its row or vice versa. Returns the checkpoint
// assigned to this write.
func (r *PresenceRepository) Upsert(realmID, userID uint, clientName string, ts time.Time, status string, pushable bool) (int64, error) {
	var updateID int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Realm{}).Where("id = ?", realmID).
			UpdateColumn("presence_last_update_id", gorm.Expr("presence_last_update_id + 1")).Error; err != nil {
			return err
		}
		var realm models.Realm
		if err := tx.Select("presence_last_update_id").First(&realm, realmID).Error; err != nil {
			return err
		}
		updateID = realm.PresenceLastUpdateID
		p := models.UserPresence{
			RealmID:      realmID,
			UserID:       userID,
			ClientName:   clientName,
			Timestamp:    ts,
			Status:       status,
			Pushable:     pushable,
			LastUpdateID: updateID,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "client_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"realm_id", "timestamp", "status", "pushable", "last_update_id"}),
		}).Create(&p).Error
	})
	if err != nil {
		return 0, err
	}
	return updateID, nil
}

// ListByUser returns all presence rows for one user, oldest client first.
func (r *PresenceRepository) ListByUser(userID uint) ([]models.UserPresence, error) {
	var rows []models.UserPresence
	err := r.db.Where("user_id = ?", userID).Order("client_name asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListVisibleByRealm returns the realm's presence rows for users who share
// their presence, plus the viewer's own rows regardless of that setting.
func (r *PresenceRepository) ListVisibleByRealm(realmID, viewerID uint) ([]models.UserPresence, error) {
	var rows []models.UserPresence
	err := r.db.
		Joins("JOIN users ON users.id = user_presence.user_id").
		Where("user_presence.realm_id = ? AND (users.presence_enabled = ? OR users.id = ?)", realmID, true, viewerID).
		Order("user_presence.user_id asc, user_presence.client_name asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CurrentUpdateID reads the realm's presence checkpoint.
func (r *PresenceRepository) CurrentUpdateID(realmID uint) (int64, error) {
	var realm models.Realm
	if err := r.db.Select("presence_last_update_id").First(&realm, realmID).Error; err != nil {
		return 0, err
	}
	return realm.PresenceLastUpdateID, nil
}
