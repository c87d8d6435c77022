package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/campuscord/core/internal/models"
	jwtpkg "github.com/campuscord/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionTTL      = 24 * time.Hour
	verificationTTL = 5 * time.Minute
)

// VerificationMailer sends the account verification email.
type VerificationMailer interface {
	SendVerification(to, username, verifyURL string) error
}

type Service struct {
	db         *gorm.DB
	mailer     VerificationMailer
	backendURL string
}

func NewService(db *gorm.DB, mailer VerificationMailer, backendURL string) *Service {
	return &Service{db: db, mailer: mailer, backendURL: backendURL}
}

// Login checks credentials and returns a session token. Unverified accounts
// are indistinguishable from unknown usernames.
func (s *Service) Login(username, password string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if !u.Verified {
		return "", nil, errUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errWrongPassword
	}

	token, err := jwtpkg.Sign(u.ID, sessionTTL)
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

// Register creates a pending user (or reclaims an unverified one) and sends
// the verification email.
func (s *Service) Register(dto *RegisterDTO) error {
	var existing models.UserModel
	err := s.db.Where("username = ? OR email = ?", dto.Username, dto.Email).First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if found && existing.Verified {
		return errTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := dto.Name
	if name == "" {
		name = dto.Username
	}

	var u models.UserModel
	if found {
		existing.Username = dto.Username
		existing.Email = dto.Email
		existing.Name = name
		existing.Password = string(hash)
		if err := s.db.Save(&existing).Error; err != nil {
			return err
		}
		u = existing
	} else {
		u = models.UserModel{Username: dto.Username, Email: dto.Email, Name: name, Password: string(hash)}
		if err := s.db.Create(&u).Error; err != nil {
			return err
		}
	}

	token, err := jwtpkg.SignVerification(u.ID, verificationTTL)
	if err != nil {
		return err
	}

	verifyURL := fmt.Sprintf("%s/api/auth/verify?token=%s", s.backendURL, token)
	if s.mailer == nil {
		return errors.New("mailer not configured")
	}
	return s.mailer.SendVerification(u.Email, u.Username, verifyURL)
}

// Verify marks the token's subject user as verified.
func (s *Service) Verify(token string) error {
	claims, err := jwtpkg.ParseVerification(token)
	if err != nil {
		return err
	}
	return s.db.Model(&models.UserModel{}).
		Where("id = ?", claims.UserID).
		Update("verified", true).Error
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(userID string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes username/name of the authenticated user.
func (s *Service) UpdateProfile(userID string, dto *UpdateProfileDTO) (*models.UserModel, error) {
	updates := map[string]interface{}{}
	if dto.Username != "" {
		updates["username"] = dto.Username
	}
	if dto.Name != "" {
		updates["name"] = dto.Name
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.UserModel{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Me(userID)
}
