// Package role contains utilities for user roles.
package role

import (
	"github.com/matt-dz/foodgram/internal/database"
)

// Role is a permission level. Higher values include the permissions of
// lower ones.
type Role int

const (
	RoleAnonymous Role = 0
	RoleUser      Role = 100
	RoleAdmin     Role = 200
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "anonymous"
	}
}

// AtLeast reports whether r grants the permissions of min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

func FromDB(role database.Role) Role {
	switch role {
	case database.RoleAdmin:
		return RoleAdmin
	case database.RoleUser:
		return RoleUser
	default:
		return RoleAnonymous
	}
}

// Parse converts the role claim of an access token. Unknown values map
// to RoleAnonymous.
func Parse(role string) Role {
	switch role {
	case "admin":
		return RoleAdmin
	case "user":
		return RoleUser
	default:
		return RoleAnonymous
	}
}
