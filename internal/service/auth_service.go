package service

import (
	"errors"

	"parley/config"
	"parley/internal/auth"
	"parley/internal/domain"
	"parley/internal/models"
	"parley/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered in this realm")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrRealmUnknown = errors.New("unknown realm")
)

type AuthService struct {
	cfg       *config.Config
	userRepo  *repository.UserRepository
	realmRepo *repository.RealmRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, realmRepo *repository.RealmRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, realmRepo: realmRepo}
}

func (s *AuthService) Register(email, fullName, password, realmSubdomain string) (*models.User, string, string, error) {
	realm, err := s.realmRepo.GetBySubdomain(realmSubdomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrRealmUnknown
		}
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByEmailInRealm(email, realm.ID)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		RealmID:         realm.ID,
		Email:           email,
		FullName:        fullName,
		PasswordHash:    string(hash),
		Role:            domain.RoleMember,
		PresenceEnabled: true,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	return s.withTokens(u)
}

func (s *AuthService) Login(email, password, realmSubdomain string) (*models.User, string, string, error) {
	realm, err := s.realmRepo.GetBySubdomain(realmSubdomain)
	if err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	u, err := s.userRepo.GetByEmailInRealm(email, realm.ID)
	if err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrInvalidCreds
	}
	return s.withTokens(u)
}

// LoginGoogle finds or creates the user matching a verified Google identity
// in the given realm.
func (s *AuthService) LoginGoogle(googleID, email, fullName, realmSubdomain string) (*models.User, string, string, error) {
	if u, err := s.userRepo.GetByGoogleID(googleID); err == nil {
		return s.withTokens(u)
	}
	realm, err := s.realmRepo.GetBySubdomain(realmSubdomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrRealmUnknown
		}
		return nil, "", "", err
	}
	if u, err := s.userRepo.GetByEmailInRealm(email, realm.ID); err == nil {
		// Existing password account; attach the Google identity.
		u.GoogleID = &googleID
		if err := s.userRepo.Update(u); err != nil {
			return nil, "", "", err
		}
		return s.withTokens(u)
	}
	u := &models.User{
		RealmID:         realm.ID,
		Email:           email,
		FullName:        fullName,
		GoogleID:        &googleID,
		Role:            domain.RoleMember,
		PresenceEnabled: true,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	return s.withTokens(u)
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*models.User, string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return nil, "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, "", "", auth.ErrInvalidToken
	}
	return s.withTokens(u)
}

func (s *AuthService) withTokens(u *models.User) (*models.User, string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.RealmID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, "", "", err
	}
	return u, access, refresh, nil
}
