package models

import "testing"

func TestCanManage(t *testing.T) {
	cases := []struct {
		caller Role
		target Role
		want   bool
	}{
		{RoleSuperAdmin, RoleSuperAdmin, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleEditor, true},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleEditor, true},
		{RoleEditor, RoleSuperAdmin, false},
		{RoleEditor, RoleAdmin, false},
		{RoleEditor, RoleEditor, false},
	}
	for _, tc := range cases {
		if got := tc.caller.CanManage(tc.target); got != tc.want {
			t.Errorf("%s.CanManage(%s) = %v, want %v", tc.caller, tc.target, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleAdmin, RoleEditor} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("root").Valid() {
		t.Error("unknown role accepted")
	}
}

func TestRoleLevelOrdering(t *testing.T) {
	if !(RoleSuperAdmin.Level() > RoleAdmin.Level() && RoleAdmin.Level() > RoleEditor.Level()) {
		t.Error("role levels out of order")
	}
	if Role("nope").Level() != 0 {
		t.Error("unknown role should rank zero")
	}
}
