package models

// MessageModel is one chat message in a channel.
type MessageModel struct {
	Base
	UserID      string       `json:"-"         gorm:"index;not null"`
	ServerID    string       `json:"-"         gorm:"index;not null"`
	ChannelName string       `json:"-"         gorm:"index;not null"`
	Content     string       `json:"content"   gorm:"type:text"`
	Media       []MediaModel `json:"media"     gorm:"foreignKey:MessageID"`
	CreatedBy   UserModel    `json:"createdBy" gorm:"foreignKey:UserID;references:ID"`
}

func (MessageModel) TableName() string { return "messages" }

// MediaModel is an attachment reference; the blob itself lives in object storage.
type MediaModel struct {
	Base
	MessageID string `json:"-"    gorm:"index;not null"`
	Name      string `json:"name" gorm:"not null"`
	Type      string `json:"type"`
}

func (MediaModel) TableName() string { return "media" }

// LikeModel records one user liking one message.
type LikeModel struct {
	Base
	UserID    string `json:"userId"    gorm:"uniqueIndex:idx_like_user_message;not null"`
	MessageID string `json:"messageId" gorm:"uniqueIndex:idx_like_user_message;not null"`
}

func (LikeModel) TableName() string { return "likes" }
