package models

// ChannelModel is a named text/voice channel inside one server.
// Channels are addressed by (serverID, name), matching the realtime room key.
type ChannelModel struct {
	Base
	ServerID   string `json:"-"          gorm:"uniqueIndex:idx_channel_server_name;not null"`
	Name       string `json:"name"       gorm:"uniqueIndex:idx_channel_server_name;not null"`
	Topic      string `json:"topic"`
	Restricted bool   `json:"restricted"`
	Call       bool   `json:"call"`
}

func (ChannelModel) TableName() string { return "channels" }
