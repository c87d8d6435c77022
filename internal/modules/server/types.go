package server

import "errors"

var errServerNotFound = errors.New("server not found")

type CreateServerDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateServerDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type serverSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
	Joined      *bool  `json:"joined,omitempty"`
}

type memberInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Admin    bool   `json:"admin"`
}

type channelInfo struct {
	Name       string `json:"name"`
	Topic      string `json:"topic"`
	Restricted bool   `json:"restricted"`
	Call       bool   `json:"call"`
}

type serverDetails struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Logo        string        `json:"logo,omitempty"`
	IsAdmin     bool          `json:"isAdmin"`
	Channels    []channelInfo `json:"channels"`
	Members     []memberInfo  `json:"members"`
}
