package database

import (
	"parley/config"
	"parley/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Realm{},
		&models.User{},
		&models.UserPresence{},
		&models.UserStatus{},
		&models.UserActivity{},
		&models.RealmEmoji{},
	)
}

// SeedDefaultRealm creates the "main" realm if no realm exists yet, so a
// fresh install can register users immediately.
func SeedDefaultRealm(db *gorm.DB) {
	var count int64
	db.Model(&models.Realm{}).Count(&count)
	if count == 0 {
		db.Create(&models.Realm{Subdomain: "main", Name: "Main"})
	}
}
