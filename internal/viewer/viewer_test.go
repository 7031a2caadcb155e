package viewer

import (
	"testing"

	"github.com/matt-dz/foodgram/internal/role"
)

func TestViewer(t *testing.T) {
	tests := []struct {
		name        string
		viewer      Viewer
		anonymous   bool
		admin       bool
		manageOwn   bool
		manageOther bool
	}{
		{name: "zero value", viewer: Viewer{}, anonymous: true},
		{name: "anonymous", viewer: Anonymous(), anonymous: true},
		{name: "user", viewer: Authenticated(5, role.RoleUser), manageOwn: true},
		{name: "user without role", viewer: Authenticated(5, role.RoleAnonymous), manageOwn: true},
		{name: "admin", viewer: Authenticated(5, role.RoleAdmin), admin: true, manageOwn: true, manageOther: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.viewer.IsAnonymous(); got != tt.anonymous {
				t.Errorf("IsAnonymous() = %v, want %v", got, tt.anonymous)
			}
			if got := tt.viewer.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.admin)
			}
			if got := tt.viewer.CanManage(5); got != tt.manageOwn {
				t.Errorf("CanManage(own) = %v, want %v", got, tt.manageOwn)
			}
			if got := tt.viewer.CanManage(6); got != tt.manageOther {
				t.Errorf("CanManage(other) = %v, want %v", got, tt.manageOther)
			}
			if got := tt.viewer.DBID().Valid; got == tt.anonymous {
				t.Errorf("DBID().Valid = %v for anonymous=%v", got, tt.anonymous)
			}
		})
	}
}
