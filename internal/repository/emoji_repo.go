package repository

import (
	"errors"

	"parley/internal/domain"
	"parley/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEmojiNotFound = errors.New("emoji does not exist")
	ErrEmojiInvalid  = errors.New("emoji code or type does not match")
)

// builtinEmoji maps unicode emoji names to codepoint strings. Trimmed to the
// names clients actually offer in the status picker; the full catalog lives
// in the frontend bundle.
var builtinEmoji = map[string]string{
	"smile":              "1f642",
	"grinning":           "1f600",
	"joy":                "1f602",
	"heart":              "2764",
	"thumbs_up":          "1f44d",
	"thumbs_down":        "1f44e",
	"tada":               "1f389",
	"rocket":             "1f680",
	"eyes":               "1f440",
	"thinking":           "1f914",
	"check":              "2705",
	"cross_mark":         "274c",
	"fire":               "1f525",
	"coffee":             "2615",
	"hamburger":          "1f354",
	"pizza":              "1f355",
	"car":                "1f697",
	"airplane":           "2708",
	"house":              "1f3e0",
	"office":             "1f3e2",
	"calendar":           "1f4c5",
	"bulb":               "1f4a1",
	"zzz":                "1f4a4",
	"palm_tree":          "1f334",
	"umbrella_with_rain": "2614",
}

type EmojiRepository struct {
	db *gorm.DB
}

func NewEmojiRepository(db *gorm.DB) *EmojiRepository {
	return &EmojiRepository{db: db}
}

// Lookup resolves an emoji name in a realm to its (code, type). Active realm
// emoji shadow the builtin unicode set.
func (r *EmojiRepository) Lookup(realmID uint, name string) (code, emojiType string, err error) {
	var re models.RealmEmoji
	dbErr := r.db.Where("realm_id = ? AND name = ? AND deactivated = ?", realmID, name, false).First(&re).Error
	if dbErr == nil {
		return re.Code, domain.EmojiTypeRealm, nil
	}
	if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return "", "", dbErr
	}
	if name == domain.ExtraEmojiName {
		return domain.ExtraEmojiName, domain.EmojiTypeExtra, nil
	}
	if cp, ok := builtinEmoji[name]; ok {
		return cp, domain.EmojiTypeUnicode, nil
	}
	return "", "", ErrEmojiNotFound
}

// Validate checks that a fully specified (name, code, type) triple is usable
// in the realm. Deactivated realm emoji stay valid as long as name and code
// still match the stored row, so old statuses remain settable.
func (r *EmojiRepository) Validate(realmID uint, name, code, emojiType string) error {
	switch emojiType {
	case domain.EmojiTypeUnicode:
		cp, ok := builtinEmoji[name]
		if !ok {
			return ErrEmojiNotFound
		}
		if cp != code {
			return ErrEmojiInvalid
		}
		return nil
	case domain.EmojiTypeRealm:
		var re models.RealmEmoji
		err := r.db.Where("realm_id = ? AND name = ?", realmID, name).First(&re).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmojiNotFound
		}
		if err != nil {
			return err
		}
		if re.Code != code {
			return ErrEmojiInvalid
		}
		return nil
	case domain.EmojiTypeExtra:
		if name != domain.ExtraEmojiName || code != domain.ExtraEmojiName {
			return ErrEmojiInvalid
		}
		return nil
	default:
		return ErrEmojiInvalid
	}
}

func (r *EmojiRepository) Create(e *models.RealmEmoji) error {
	return r.db.Create(e).Error
}

func (r *EmojiRepository) Update(e *models.RealmEmoji) error {
	return r.db.Save(e).Error
}

func (r *EmojiRepository) GetByName(realmID uint, name string) (*models.RealmEmoji, error) {
	var re models.RealmEmoji
	err := r.db.Where("realm_id = ? AND name = ?", realmID, name).First(&re).Error
	if err != nil {
		return nil, err
	}
	return &re, nil
}

func (r *EmojiRepository) Deactivate(realmID uint, name string) error {
	return r.db.Model(&models.RealmEmoji{}).
		Where("realm_id = ? AND name = ?", realmID, name).
		Update("deactivated", true).Error
}

func (r *EmojiRepository) ListActive(realmID uint) ([]models.RealmEmoji, error) {
	var rows []models.RealmEmoji
	err := r.db.Where("realm_id = ? AND deactivated = ?", realmID, false).Order("name asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
