package repository

import (
	"parley/internal/models"

	"gorm.io/gorm"
)

type RealmRepository struct {
	db *gorm.DB
}

func NewRealmRepository(db *gorm.DB) *RealmRepository {
	return &RealmRepository{db: db}
}

func (r *RealmRepository) GetByID(id uint) (*models.Realm, error) {
	var realm models.Realm
	err := r.db.First(&realm, id).Error
	if err != nil {
		return nil, err
	}
	return &realm, nil
}

func (r *RealmRepository) GetBySubdomain(subdomain string) (*models.Realm, error) {
	var realm models.Realm
	err := r.db.Where("subdomain = ?", subdomain).First(&realm).Error
	if err != nil {
		return nil, err
	}
	return &realm, nil
}
