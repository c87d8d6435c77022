package member

import "errors"

var (
	errServerNotFound = errors.New("server not found")
	errAlreadyMember  = errors.New("already a member")
	errNotMember      = errors.New("not a member")
	errWrongDomain    = errors.New("email domain does not match")
	errNotAdmin       = errors.New("member is not an admin")
)

type memberInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Admin    bool   `json:"admin"`
}
