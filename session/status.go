package session

import (
	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/models"
)

// Status is a point-in-time view of the session.
type Status struct {
	State enums.SessionState
	User  *models.User
	// Busy is set while a login, registration, logout or invalidation is in
	// flight. State and User still describe the last settled session.
	Busy bool
}

func (s Status) IsInitializing() bool {
	return s.State == enums.SessionStateInitializing
}

func (s Status) IsAuthenticated() bool {
	return s.State == enums.SessionStateAuthenticated && s.User != nil
}

// Role returns the user's role, or RoleNone without a session.
func (s Status) Role() enums.Role {
	if !s.IsAuthenticated() {
		return enums.RoleNone
	}
	return s.User.Role
}
