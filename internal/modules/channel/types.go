package channel

import (
	"errors"
	"time"
)

var (
	errChannelExists  = errors.New("channel already exists")
	errChannelMissing = errors.New("channel not found")
	errMessageMissing = errors.New("message not found")
	errAlreadyLiked   = errors.New("message already liked")
)

type CreateChannelDTO struct {
	Name       string `json:"name" binding:"required"`
	Topic      string `json:"topic"`
	Restricted bool   `json:"restricted"`
	Call       bool   `json:"call"`
}

type UpdateChannelDTO struct {
	Topic      string `json:"topic"`
	Restricted *bool  `json:"restricted"`
	Call       *bool  `json:"call"`
}

type CreateMessageDTO struct {
	Content string     `json:"content"`
	Media   []MediaDTO `json:"media"`
}

type MediaDTO struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

type MediaView struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
}

type AuthorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
}

// MessageView is the wire shape of one message, enriched with like
// counts and the caller's own relation to it.
type MessageView struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Media     []MediaView `json:"media"`
	CreatedAt time.Time   `json:"createdAt"`
	CreatedBy AuthorView  `json:"createdBy"`
	Likes     int64       `json:"likes"`
	Liked     bool        `json:"liked"`
	Self      bool        `json:"self"`
}
