package models

// ServerModel is an organizational tenant ("server"). Primary servers are
// bound to a campus email domain and joinable only by matching addresses.
type ServerModel struct {
	Base
	Name        string         `json:"name"        gorm:"not null"`
	Description string         `json:"description"`
	Domain      string         `json:"domain"`
	IsPrimary   bool           `json:"isPrimary"`
	Channels    []ChannelModel `json:"channels,omitempty" gorm:"foreignKey:ServerID"`
	Members     []Membership   `json:"members,omitempty"  gorm:"foreignKey:ServerID"`
}

func (ServerModel) TableName() string { return "servers" }

// Membership asserts that a user belongs to a server, optionally as admin.
type Membership struct {
	Base
	UserID   string    `json:"userId"   gorm:"uniqueIndex:idx_membership_user_server;not null"`
	ServerID string    `json:"serverId" gorm:"uniqueIndex:idx_membership_user_server;not null"`
	Admin    bool      `json:"admin"`
	User     UserModel `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (Membership) TableName() string { return "memberships" }
