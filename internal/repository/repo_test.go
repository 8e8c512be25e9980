package repository

import (
	"testing"

	"parley/internal/database"
	"parley/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedRealm(t *testing.T, db *gorm.DB) *models.Realm {
	t.Helper()
	realm := &models.Realm{Subdomain: "test", Name: "Test"}
	if err := db.Create(realm).Error; err != nil {
		t.Fatalf("create realm: %v", err)
	}
	return realm
}

func seedUser(t *testing.T, db *gorm.DB, realmID uint, email string, presenceEnabled bool) *models.User {
	t.Helper()
	u := &models.User{RealmID: realmID, Email: email, FullName: "Test", Role: "MEMBER", PresenceEnabled: presenceEnabled}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
