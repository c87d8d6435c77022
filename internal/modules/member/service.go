package member

import (
	"errors"
	"strings"

	"github.com/campuscord/core/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns all memberships of a server with user profiles loaded.
func (s *Service) List(serverID string) ([]models.Membership, error) {
	var members []models.Membership
	err := s.db.Preload("User").Where("server_id = ?", serverID).Find(&members).Error
	return members, err
}

// Join adds the user to a server. Joining a primary server additionally
// requires the user's email to carry the server's campus domain.
func (s *Service) Join(userID, serverID string) error {
	var existing models.Membership
	err := s.db.Where("user_id = ? AND server_id = ?", userID, serverID).First(&existing).Error
	if err == nil {
		return errAlreadyMember
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var srv models.ServerModel
	if err := s.db.First(&srv, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errServerNotFound
		}
		return err
	}

	if srv.IsPrimary {
		var user models.UserModel
		if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if srv.Domain == "" || !strings.HasSuffix(emailDomain(user.Email), srv.Domain) {
			return errWrongDomain
		}
	}

	return s.db.Create(&models.Membership{UserID: userID, ServerID: serverID}).Error
}

// Leave removes the user's membership.
func (s *Service) Leave(userID, serverID string) error {
	res := s.db.Where("user_id = ? AND server_id = ?", userID, serverID).Delete(&models.Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotMember
	}
	return nil
}

// Promote grants admin to a member of the server.
func (s *Service) Promote(serverID, targetUserID string) error {
	m, err := s.find(serverID, targetUserID)
	if err != nil {
		return err
	}
	return s.db.Model(m).Update("admin", true).Error
}

// Demote revokes admin from a member. Demoting a non-admin is an error.
func (s *Service) Demote(serverID, targetUserID string) error {
	m, err := s.find(serverID, targetUserID)
	if err != nil {
		return err
	}
	if !m.Admin {
		return errNotAdmin
	}
	return s.db.Model(m).Update("admin", false).Error
}

func (s *Service) find(serverID, targetUserID string) (*models.Membership, error) {
	var m models.Membership
	err := s.db.Where("user_id = ? AND server_id = ?", targetUserID, serverID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotMember
		}
		return nil, err
	}
	return &m, nil
}

func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}
