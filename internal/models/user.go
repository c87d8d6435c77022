package models

// UserModel represents a registered campus user.
type UserModel struct {
	Base
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Email    string `json:"email"    gorm:"uniqueIndex;not null"`
	Name     string `json:"name"`
	Password string `json:"-"        gorm:"not null"`
	Verified bool   `json:"verified"`
}

func (UserModel) TableName() string { return "users" }
