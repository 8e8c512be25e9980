package service

import (
	"testing"
	"time"

	"parley/config"
	"parley/internal/domain"
	"parley/internal/repository"
)

func TestHeartbeat_MirrorRealmFlag(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db, true)
	user := seedUser(t, db, realm.ID, "mirror@example.com")
	activityRepo := repository.NewActivityRepository(db)
	svc := NewPresenceService(
		&config.PresenceConfig{OfflineThresholdSecs: 140, MirrorActivityWindow: 5 * time.Minute},
		repository.NewPresenceRepository(db),
		repository.NewUserRepository(db),
		repository.NewRealmRepository(db),
		activityRepo,
	)
	now := time.Now()

	// No mirror activity recorded at all: flag present and false, not an error.
	ret, err := svc.Heartbeat(user, "website", now, HeartbeatOptions{Status: domain.PresenceActive, PingOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if active, ok := ret["zephyr_mirror_active"].(bool); !ok || active {
		t.Errorf("zephyr_mirror_active = %v, want false", ret["zephyr_mirror_active"])
	}

	// Recent mirror-bot activity flips the flag.
	if err := activityRepo.Touch(user.ID, domain.MirrorClientName, "get_events", now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	ret, err = svc.Heartbeat(user, "website", now, HeartbeatOptions{Status: domain.PresenceActive, PingOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if active, _ := ret["zephyr_mirror_active"].(bool); !active {
		t.Error("recent mirror activity should report zephyr_mirror_active=true")
	}

	// Stale activity beyond the window counts as inactive again.
	if err := activityRepo.Touch(user.ID, domain.MirrorClientName, "get_events", now.Add(-10*time.Minute)); err != nil {
		t.Fatal(err)
	}
	ret, err = svc.Heartbeat(user, "website", now, HeartbeatOptions{Status: domain.PresenceActive, PingOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if active, _ := ret["zephyr_mirror_active"].(bool); active {
		t.Error("stale mirror activity should report zephyr_mirror_active=false")
	}
}
