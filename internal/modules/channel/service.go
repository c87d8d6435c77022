package channel

import (
	"errors"

	"github.com/campuscord/core/internal/models"
	"github.com/campuscord/core/internal/pkg/pagination"
	"github.com/campuscord/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns the channels of a server.
func (s *Service) List(serverID string) ([]models.ChannelModel, error) {
	var channels []models.ChannelModel
	err := s.db.Where("server_id = ?", serverID).Order("created_at asc").Find(&channels).Error
	return channels, err
}

// Get returns one channel by (server, name).
func (s *Service) Get(serverID, name string) (*models.ChannelModel, error) {
	var ch models.ChannelModel
	err := s.db.Where("server_id = ? AND name = ?", serverID, name).First(&ch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errChannelMissing
		}
		return nil, err
	}
	return &ch, nil
}

// Create adds a channel. Channel names are unique within one server.
func (s *Service) Create(serverID string, dto *CreateChannelDTO) (*models.ChannelModel, error) {
	if _, err := s.Get(serverID, dto.Name); err == nil {
		return nil, errChannelExists
	} else if !errors.Is(err, errChannelMissing) {
		return nil, err
	}

	ch := models.ChannelModel{
		ServerID:   serverID,
		Name:       dto.Name,
		Topic:      dto.Topic,
		Restricted: dto.Restricted,
		Call:       dto.Call,
	}
	if err := s.db.Create(&ch).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

// Edit updates topic/restricted/call of a channel.
func (s *Service) Edit(serverID, name string, dto *UpdateChannelDTO) (*models.ChannelModel, error) {
	ch, err := s.Get(serverID, name)
	if err != nil {
		return nil, err
	}

	if dto.Topic != "" {
		ch.Topic = dto.Topic
	}
	if dto.Restricted != nil {
		ch.Restricted = *dto.Restricted
	}
	if dto.Call != nil {
		ch.Call = *dto.Call
	}
	if err := s.db.Save(ch).Error; err != nil {
		return nil, err
	}
	return ch, nil
}

// Delete removes a channel and its message history.
func (s *Service) Delete(serverID, name string) error {
	ch, err := s.Get(serverID, name)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(ch).Error; err != nil {
			return err
		}
		return tx.Where("server_id = ? AND channel_name = ?", serverID, name).
			Delete(&models.MessageModel{}).Error
	})
}

// Messages loads one page of channel history in ascending creation order,
// with media and author preloaded.
func (s *Service) Messages(serverID, name string, q pagination.Query) ([]models.MessageModel, response.Pagination, error) {
	query := s.db.Model(&models.MessageModel{}).
		Where("server_id = ? AND channel_name = ?", serverID, name).
		Preload("Media").
		Preload("CreatedBy").
		Order("created_at asc")

	var messages []models.MessageModel
	page, err := pagination.Paginate(query, q, &messages)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return messages, page, nil
}

// LikeState returns per-message like counts plus the set the caller liked.
func (s *Service) LikeState(userID string, messageIDs []string) (map[string]int64, map[string]bool, error) {
	counts := make(map[string]int64, len(messageIDs))
	mine := make(map[string]bool)
	if len(messageIDs) == 0 {
		return counts, mine, nil
	}

	var rows []struct {
		MessageID string
		Total     int64
	}
	err := s.db.Model(&models.LikeModel{}).
		Select("message_id, count(*) as total").
		Where("message_id IN ?", messageIDs).
		Group("message_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		counts[r.MessageID] = r.Total
	}

	var liked []models.LikeModel
	err = s.db.Where("user_id = ? AND message_id IN ?", userID, messageIDs).Find(&liked).Error
	if err != nil {
		return nil, nil, err
	}
	for _, l := range liked {
		mine[l.MessageID] = true
	}
	return counts, mine, nil
}

// CreateMessage persists a message with its media rows and returns it with
// the author loaded.
func (s *Service) CreateMessage(userID, serverID, name string, dto *CreateMessageDTO) (*models.MessageModel, error) {
	if _, err := s.Get(serverID, name); err != nil {
		return nil, err
	}

	msg := models.MessageModel{
		UserID:      userID,
		ServerID:    serverID,
		ChannelName: name,
		Content:     dto.Content,
	}
	for _, m := range dto.Media {
		msg.Media = append(msg.Media, models.MediaModel{Name: m.Name, Type: m.Type})
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	var out models.MessageModel
	if err := s.db.Preload("Media").Preload("CreatedBy").First(&out, "id = ?", msg.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMessage removes a message, but only for its author.
func (s *Service) DeleteMessage(messageID, userID string) error {
	res := s.db.Where("id = ? AND user_id = ?", messageID, userID).Delete(&models.MessageModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errMessageMissing
	}
	return nil
}

// Like records that the user liked a message. Liking twice is an error.
func (s *Service) Like(userID, messageID string) error {
	var existing models.LikeModel
	err := s.db.Where("user_id = ? AND message_id = ?", userID, messageID).First(&existing).Error
	if err == nil {
		return errAlreadyLiked
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(&models.LikeModel{UserID: userID, MessageID: messageID}).Error
}

// Dislike removes the user's like from a message. Removing a like that
// does not exist is a no-op.
func (s *Service) Dislike(userID, messageID string) error {
	return s.db.Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.LikeModel{}).Error
}
