package repository

import (
	"testing"
	"time"

	"parley/internal/domain"
)

func TestUpsert_AssignsIncreasingCheckpoints(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	user := seedUser(t, db, realm.ID, "u@example.com", true)
	repo := NewPresenceRepository(db)

	now := time.Now()
	id1, err := repo.Upsert(realm.ID, user.ID, "website", now, domain.PresenceActive, false)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := repo.Upsert(realm.ID, user.ID, "android", now, domain.PresenceActive, true)
	if err != nil {
		t.Fatal(err)
	}
	if id2 <= id1 {
		t.Errorf("checkpoints not strictly increasing: %d then %d", id1, id2)
	}
	current, err := repo.CurrentUpdateID(realm.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current != id2 {
		t.Errorf("realm checkpoint = %d, want %d (the last assigned)", current, id2)
	}
}

func TestUpsert_OneRowPerUserClient(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	user := seedUser(t, db, realm.ID, "u@example.com", true)
	repo := NewPresenceRepository(db)

	now := time.Now()
	if _, err := repo.Upsert(realm.ID, user.ID, "website", now.Add(-time.Minute), domain.PresenceIdle, false); err != nil {
		t.Fatal(err)
	}
	updateID, err := repo.Upsert(realm.ID, user.ID, "website", now, domain.PresenceActive, false)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := repo.ListByUser(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Status != domain.PresenceActive || !row.Timestamp.Equal(now) {
		t.Errorf("row not overwritten: status=%s ts=%v", row.Status, row.Timestamp)
	}
	if row.LastUpdateID != updateID {
		t.Errorf("row checkpoint = %d, want %d (assigned with the write)", row.LastUpdateID, updateID)
	}
}

func TestListVisibleByRealm_RespectsPresenceEnabled(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	visible := seedUser(t, db, realm.ID, "visible@example.com", true)
	hidden := seedUser(t, db, realm.ID, "hidden@example.com", false)
	repo := NewPresenceRepository(db)

	now := time.Now()
	for _, u := range []uint{visible.ID, hidden.ID} {
		if _, err := repo.Upsert(realm.ID, u, "website", now, domain.PresenceActive, false); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := repo.ListVisibleByRealm(realm.ID, visible.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		if row.UserID == hidden.ID {
			t.Error("hidden user's rows leaked into the realm snapshot")
		}
	}

	// The hidden user still sees their own rows.
	rows, err = repo.ListVisibleByRealm(realm.ID, hidden.ID)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, row := range rows {
		if row.UserID == hidden.ID {
			found = true
		}
	}
	if !found {
		t.Error("a user hiding their presence should still see themselves")
	}
}
