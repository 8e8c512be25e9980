package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"parley/internal/domain"
	"parley/internal/models"
	"parley/internal/repository"
)

var (
	ErrEmptyStatusUpdate = errors.New("client did not pass any new values")
	ErrStatusTextTooLong = errors.New("status text exceeds the maximum length")
	ErrEmojiWithoutName  = errors.New("client must pass emoji_name if they pass either emoji_code or emoji_type")
)

// StatusUpdate is a partial status-override change. Each pointer is
// tri-state: nil leaves the stored value alone, a pointer to "" clears, a
// pointer to a value sets.
type StatusUpdate struct {
	Away       *bool
	StatusText *string
	EmojiName  *string
	EmojiCode  *string
	EmojiType  *string
}

type StatusService struct {
	statusRepo *repository.StatusRepository
	emojiRepo  *repository.EmojiRepository
}

func NewStatusService(statusRepo *repository.StatusRepository, emojiRepo *repository.EmojiRepository) *StatusService {
	return &StatusService{statusRepo: statusRepo, emojiRepo: emojiRepo}
}

// UpdateStatus validates a partial update and merges it into target's
// stored override. All validation runs before any write; an invalid request
// leaves the store untouched. The admin variant reuses this with a
// different target after its own authorization check.
func (s *StatusService) UpdateStatus(target *models.User, clientName string, upd StatusUpdate) error {
	if upd.StatusText != nil {
		trimmed := strings.TrimSpace(*upd.StatusText)
		if utf8.RuneCountInString(trimmed) > domain.StatusTextMaxLength {
			return ErrStatusTextTooLong
		}
		upd.StatusText = &trimmed
	}

	if upd.Away == nil && upd.StatusText == nil && upd.EmojiName == nil {
		return ErrEmptyStatusUpdate
	}

	switch {
	case upd.EmojiName != nil && *upd.EmojiName == "":
		// Clearing the emoji resets code and type without a catalog lookup.
		empty := ""
		unicode := domain.EmojiTypeUnicode
		upd.EmojiCode = &empty
		upd.EmojiType = &unicode
	case upd.EmojiName != nil:
		if upd.EmojiCode == nil || upd.EmojiType == nil {
			code, emojiType, err := s.emojiRepo.Lookup(target.RealmID, *upd.EmojiName)
			if err != nil {
				return err
			}
			if upd.EmojiCode == nil {
				upd.EmojiCode = &code
			}
			if upd.EmojiType == nil {
				upd.EmojiType = &emojiType
			}
		}
	case upd.EmojiCode != nil || upd.EmojiType != nil:
		return ErrEmojiWithoutName
	}

	// A concrete emoji (set, not cleared or left alone) must be usable in
	// the target's realm.
	if upd.EmojiName != nil && *upd.EmojiName != "" {
		if err := s.emojiRepo.Validate(target.RealmID, *upd.EmojiName, *upd.EmojiCode, *upd.EmojiType); err != nil {
			return err
		}
	}

	return s.statusRepo.Apply(target.ID, repository.StatusChange{
		Away:       upd.Away,
		StatusText: upd.StatusText,
		EmojiName:  upd.EmojiName,
		EmojiCode:  upd.EmojiCode,
		EmojiType:  upd.EmojiType,
		ClientName: clientName,
	})
}

// GetStatus returns the target's stored override; users who never set one
// get the zero value.
func (s *StatusService) GetStatus(target *models.User) (*models.UserStatus, error) {
	return s.statusRepo.Get(target.ID)
}
