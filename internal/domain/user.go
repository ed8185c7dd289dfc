// Package domain contains the core business entities and domain logic for the Inkwell publishing platform.
package domain

import "time"

// Role determines what a user may do on the platform.
type Role string

// Roles recognized by the platform.
const (
	RoleReader    Role = "reader"
	RoleAuthor    Role = "author"
	RoleModerator Role = "moderator"
)

// User represents a platform account. Identity is owned by the
// authentication subsystem; this server consumes the persisted entity.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	AvatarColor string    `json:"avatar_color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsModerator reports whether the user can curate other users' content.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// CanPublish reports whether the user can create books and chapters.
func (u *User) CanPublish() bool {
	return u.Role == RoleAuthor || u.Role == RoleModerator
}
