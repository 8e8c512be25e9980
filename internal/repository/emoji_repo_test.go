package repository

import (
	"testing"

	"parley/internal/domain"
	"parley/internal/models"
)

func TestLookup_BuiltinAndExtra(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	repo := NewEmojiRepository(db)

	code, emojiType, err := repo.Lookup(realm.ID, "rocket")
	if err != nil {
		t.Fatal(err)
	}
	if code != "1f680" || emojiType != domain.EmojiTypeUnicode {
		t.Errorf("rocket resolved to %s/%s", code, emojiType)
	}

	code, emojiType, err = repo.Lookup(realm.ID, domain.ExtraEmojiName)
	if err != nil {
		t.Fatal(err)
	}
	if code != domain.ExtraEmojiName || emojiType != domain.EmojiTypeExtra {
		t.Errorf("extra emoji resolved to %s/%s", code, emojiType)
	}

	if _, _, err := repo.Lookup(realm.ID, "definitely_not_an_emoji"); err != ErrEmojiNotFound {
		t.Errorf("err = %v, want ErrEmojiNotFound", err)
	}
}

func TestLookup_RealmEmojiShadowsBuiltin(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	repo := NewEmojiRepository(db)
	if err := repo.Create(&models.RealmEmoji{RealmID: realm.ID, Name: "rocket", Code: "42", ImageURL: "https://example.com/rocket.png", AuthorID: 1}); err != nil {
		t.Fatal(err)
	}
	code, emojiType, err := repo.Lookup(realm.ID, "rocket")
	if err != nil {
		t.Fatal(err)
	}
	if code != "42" || emojiType != domain.EmojiTypeRealm {
		t.Errorf("active realm emoji should shadow the builtin, got %s/%s", code, emojiType)
	}
}

func TestLookup_DeactivatedRealmEmojiFallsBack(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	repo := NewEmojiRepository(db)
	if err := repo.Create(&models.RealmEmoji{RealmID: realm.ID, Name: "party", Code: "7", ImageURL: "https://example.com/party.png", AuthorID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Deactivate(realm.ID, "party"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := repo.Lookup(realm.ID, "party"); err != ErrEmojiNotFound {
		t.Errorf("deactivated emoji should not resolve by name, err = %v", err)
	}
}

func TestValidate_DeactivatedStillValidWithMatchingCode(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	repo := NewEmojiRepository(db)
	if err := repo.Create(&models.RealmEmoji{RealmID: realm.ID, Name: "party", Code: "7", ImageURL: "https://example.com/party.png", AuthorID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Deactivate(realm.ID, "party"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Validate(realm.ID, "party", "7", domain.EmojiTypeRealm); err != nil {
		t.Errorf("deactivated emoji with matching code should validate, err = %v", err)
	}
	if err := repo.Validate(realm.ID, "party", "8", domain.EmojiTypeRealm); err != ErrEmojiInvalid {
		t.Errorf("mismatched code must fail, err = %v", err)
	}
}

func TestValidate_UnicodeCodeMustMatch(t *testing.T) {
	db := newTestDB(t)
	realm := seedRealm(t, db)
	repo := NewEmojiRepository(db)
	if err := repo.Validate(realm.ID, "coffee", "2615", domain.EmojiTypeUnicode); err != nil {
		t.Errorf("valid unicode pair rejected: %v", err)
	}
	if err := repo.Validate(realm.ID, "coffee", "0000", domain.EmojiTypeUnicode); err != ErrEmojiInvalid {
		t.Errorf("wrong codepoint must fail, err = %v", err)
	}
	if err := repo.Validate(realm.ID, "coffee", "2615", "made_up_type"); err != ErrEmojiInvalid {
		t.Errorf("unknown emoji type must fail, err = %v", err)
	}
}
