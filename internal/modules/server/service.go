package server

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

// serverWithJoined pairs a server with the caller's membership state.
type serverWithJoined struct {
	Server models.ServerModel
	Joined bool
}

// ListAll splits the catalogue into the caller's primary campus server,
// matched by email domain, and every non-primary server.
func (s *Service) ListAll(userID string) (primary *serverWithJoined, secondary []serverWithJoined, err error) {
	var user models.UserModel
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, nil, err
	}

	var servers []models.ServerModel
	if err := s.db.Find(&servers).Error; err != nil {
		return nil, nil, err
	}

	joined, err := s.joinedSet(userID)
	if err != nil {
		return nil, nil, err
	}

	emailDomain := ""
	if at := strings.LastIndex(user.Email, "@"); at >= 0 {
		emailDomain = user.Email[at+1:]
	}

	secondary = make([]serverWithJoined, 0, len(servers))
	for _, srv := range servers {
		entry := serverWithJoined{Server: srv, Joined: joined[srv.ID]}
		if srv.IsPrimary {
			if primary == nil && srv.Domain != "" && strings.HasSuffix(emailDomain, srv.Domain) {
				p := entry
				primary = &p
			}
			continue
		}
		secondary = append(secondary, entry)
	}
	return primary, secondary, nil
}

// Mine lists the servers the caller belongs to.
func (s *Service) Mine(userID string) ([]models.ServerModel, error) {
	var servers []models.ServerModel
	err := s.db.
		Joins("JOIN memberships ON memberships.server_id = servers.id").
		Where("memberships.user_id = ? AND memberships.deleted_at IS NULL", userID).
		Find(&servers).Error
	return servers, err
}

// Create makes a new server with the creator as its first admin member.
func (s *Service) Create(userID string, dto *CreateServerDTO) (*models.ServerModel, error) {
	srv := models.ServerModel{Name: dto.Name, Description: dto.Description}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&srv).Error; err != nil {
			return err
		}
		return tx.Create(&models.Membership{
			UserID:   userID,
			ServerID: srv.ID,
			Admin:    true,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

// Details loads a server with its channels and members.
func (s *Service) Details(serverID string) (*models.ServerModel, []models.Membership, error) {
	var srv models.ServerModel
	if err := s.db.Preload("Channels").First(&srv, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errServerNotFound
		}
		return nil, nil, err
	}

	var members []models.Membership
	if err := s.db.Preload("User").Where("server_id = ?", serverID).Find(&members).Error; err != nil {
		return nil, nil, err
	}
	return &srv, members, nil
}

// Edit updates name/description of a server.
func (s *Service) Edit(serverID string, dto *UpdateServerDTO) (*models.ServerModel, error) {
	var srv models.ServerModel
	if err := s.db.First(&srv, "id = ?", serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errServerNotFound
		}
		return nil, err
	}

	if dto.Name != "" {
		srv.Name = dto.Name
	}
	if dto.Description != "" {
		srv.Description = dto.Description
	}
	if err := s.db.Save(&srv).Error; err != nil {
		return nil, err
	}
	return &srv, nil
}

// Delete removes a server together with its memberships and channels.
func (s *Service) Delete(serverID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.ServerModel{}, "id = ?", serverID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errServerNotFound
		}
		if err := tx.Where("server_id = ?", serverID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Where("server_id = ?", serverID).Delete(&models.ChannelModel{}).Error
	})
}

func (s *Service) joinedSet(userID string) (map[string]bool, error) {
	var memberships []models.Membership
	if err := s.db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	joined := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		joined[m.ServerID] = true
	}
	return joined, nil
}
