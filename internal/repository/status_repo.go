package repository

import (
	"errors"

	"parley/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusChange is a partial status update. Nil fields are left untouched;
// the emoji fields are either all nil or all set by the caller.
type StatusChange struct {
	Away       *bool
	StatusText *string
	EmojiName  *string
	EmojiCode  *string
	EmojiType  *string
	ClientName string
}

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Get returns the user's status override, or a zero-value row if the user
// never set one.
func (r *StatusRepository) Get(userID uint) (*models.UserStatus, error) {
	var st models.UserStatus
	err := r.db.Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserStatus{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Apply merges a partial change into the stored row under a row lock, so two
// racing partial updates for the same user cannot drop each other's fields.
func (r *StatusRepository) Apply(userID uint, ch StatusChange) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var st models.UserStatus
		err := q.Where("user_id = ?", userID).First(&st).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			st = models.UserStatus{UserID: userID}
		} else if err != nil {
			return err
		}
		if ch.Away != nil {
			st.Away = *ch.Away
		}
		if ch.StatusText != nil {
			st.StatusText = *ch.StatusText
		}
		if ch.EmojiName != nil {
			st.EmojiName = *ch.EmojiName
			st.EmojiCode = *ch.EmojiCode
			st.EmojiType = *ch.EmojiType
		}
		st.ClientName = ch.ClientName
		return tx.Save(&st).Error
	})
}
