package authz

import "testing"

func TestParseRole_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"editor", RoleEditor},
		{"viewer", RoleViewer},
		{"ADMIN", RoleAdmin},
		{"  Viewer ", RoleViewer},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRole_Invalid(t *testing.T) {
	for _, in := range []string{"", "owner", "superadmin", "admins"} {
		if _, err := ParseRole(in); err == nil {
			t.Errorf("ParseRole(%q): expected error", in)
		}
	}
}

func TestRole_Satisfies(t *testing.T) {
	cases := []struct {
		held, required Role
		want           bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleEditor, true},
		{RoleAdmin, RoleViewer, true},
		{RoleEditor, RoleAdmin, false},
		{RoleEditor, RoleEditor, true},
		{RoleEditor, RoleViewer, true},
		{RoleViewer, RoleAdmin, false},
		{RoleViewer, RoleEditor, false},
		{RoleViewer, RoleViewer, true},
	}
	for _, tc := range cases {
		if got := tc.held.Satisfies(tc.required); got != tc.want {
			t.Errorf("%s.Satisfies(%s) = %v, want %v", tc.held, tc.required, got, tc.want)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleEditor.Valid() || !RoleViewer.Valid() {
		t.Error("expected the three garden roles to be valid")
	}
	if Role("owner").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}
