package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role in the awards platform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVoter  Role = "voter"
	RoleViewer Role = "viewer"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleVoter, RoleViewer:
		return true
	}
	return false
}

// CanVote reports whether a role may cast votes. Admin voting is a
// deployment decision (AUTH_ALLOW_ADMIN_VOTE); viewers never vote.
func CanVote(role Role, allowAdminVote bool) bool {
	if role == RoleVoter {
		return true
	}
	return role == RoleAdmin && allowAdminVote
}

// CanModerate reports whether a role may manage polls, nominations,
// users and settings.
func CanModerate(role Role) bool {
	return role == RoleAdmin
}

// User represents a platform account. Exactly one per authenticated
// identity; email is stored lowercased and is unique.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
