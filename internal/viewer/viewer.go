// Package viewer describes the identity a request is made with.
package viewer

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/role"
)

// Viewer is the authenticated user or anonymous caller of a request.
// The zero value is anonymous.
type Viewer struct {
	ID   int64
	Role role.Role
}

func Anonymous() Viewer {
	return Viewer{Role: role.RoleAnonymous}
}

func Authenticated(id int64, r role.Role) Viewer {
	if r == role.RoleAnonymous {
		r = role.RoleUser
	}
	return Viewer{ID: id, Role: r}
}

func (v Viewer) IsAnonymous() bool {
	return v.ID == 0
}

func (v Viewer) IsAdmin() bool {
	return !v.IsAnonymous() && v.Role.AtLeast(role.RoleAdmin)
}

// CanManage reports whether v may modify a resource owned by authorID.
func (v Viewer) CanManage(authorID int64) bool {
	if v.IsAnonymous() {
		return false
	}
	return v.ID == authorID || v.IsAdmin()
}

// DBID is the viewer id as a nullable query parameter; it is NULL for
// anonymous viewers.
func (v Viewer) DBID() pgtype.Int8 {
	if v.IsAnonymous() {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: v.ID, Valid: true}
}
