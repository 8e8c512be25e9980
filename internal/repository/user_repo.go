package repository

import (
	"parley/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDInRealm resolves a user id within one realm; cross-realm ids behave
// as if the user does not exist.
func (r *UserRepository) GetByIDInRealm(id, realmID uint) (*models.User, error) {
	var u models.User
	err := r.db.Where("id = ? AND realm_id = ?", id, realmID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmailInRealm(email string, realmID uint) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ? AND realm_id = ?", email, realmID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// CanView reports whether viewer may see target's presence. Users always see
// themselves; others only when the target shares their presence and both
// live in the same realm.
func (r *UserRepository) CanView(target, viewer *models.User) bool {
	if target.ID == viewer.ID {
		return true
	}
	if target.RealmID != viewer.RealmID {
		return false
	}
	return target.PresenceEnabled
}
