// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an admin user's permission level in the system.
// The hierarchy is strict: super_admin > admin > editor.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
)

// Valid reports whether the role is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// Level returns the rank of the role for hierarchy comparisons.
// Higher outranks lower.
func (r Role) Level() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	}
	return 0
}

// CanManage reports whether a caller with this role may manage (activate,
// deactivate, delete, or create) a user holding the target role.
// A super_admin manages anyone; an admin manages only editors; an editor
// manages nobody. Self-management is excluded separately by user ID.
func (r Role) CanManage(target Role) bool {
	if r == RoleSuperAdmin {
		return true
	}
	if r == RoleAdmin && target == RoleEditor {
		return true
	}
	return false
}

// AdminUser represents a person permitted to edit the site.
// The row is the identity: credentials and the optional TOTP enrollment
// live alongside the role and the active flag.
type AdminUser struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	TOTPSecret   *string    `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool       `json:"totp_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Needs2FAVerify returns true if the user has TOTP enabled and must
// verify a code before the session is fully authenticated.
func (u *AdminUser) Needs2FAVerify() bool {
	return u.TOTPEnabled
}
