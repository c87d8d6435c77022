package auth

import "errors"

var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("invalid password")
	errTaken         = errors.New("username or email already taken")
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterDTO struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type UpdateProfileDTO struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

type userInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Verified *bool  `json:"verified,omitempty"`
}

type loginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    userInfo `json:"user"`
}
