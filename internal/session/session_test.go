package session

import (
	"errors"
	"testing"
)

func TestFromClaimsUserMetadataWins(t *testing.T) {
	userMeta := map[string]interface{}{
		"role":        "ADMIN",
		"church_id":   "church-1",
		"church_slug": "grace-chapel",
	}
	appMeta := map[string]interface{}{
		"role":      "PASTOR",
		"church_id": "church-2",
		"member_id": "member-9",
	}

	s := FromClaims("user-1", "a@x.com", userMeta, appMeta)

	if s.Role != RoleAdmin {
		t.Fatalf("role = %q, want ADMIN", s.Role)
	}
	if s.ChurchID != "church-1" {
		t.Fatalf("church id = %q, want church-1", s.ChurchID)
	}
	if s.ChurchSlug != "grace-chapel" {
		t.Fatalf("church slug = %q", s.ChurchSlug)
	}
	if s.MemberID != "member-9" {
		t.Fatalf("member id should fall back to app metadata, got %q", s.MemberID)
	}
}

func TestFromClaimsIgnoresUnknownRole(t *testing.T) {
	s := FromClaims("user-1", "a@x.com", map[string]interface{}{"role": "OWNER"}, nil)
	if s.Role != "" {
		t.Fatalf("unknown role should be dropped, got %q", s.Role)
	}

	s = FromClaims("user-1", "a@x.com", map[string]interface{}{"role": 42}, nil)
	if s.Role != "" {
		t.Fatalf("non-string role should be dropped, got %q", s.Role)
	}
}

func TestParseRoleNormalizes(t *testing.T) {
	role, ok := ParseRole(" admin ")
	if !ok || role != RoleAdmin {
		t.Fatalf("ParseRole(\" admin \") = %q, %v", role, ok)
	}
	if _, ok := ParseRole(""); ok {
		t.Fatal("empty role must not parse")
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		allowed []Role
		wantErr bool
	}{
		{"allowed", RoleAdmin, []Role{RoleAdmin}, false},
		{"allowed among several", RolePastor, []Role{RoleAdmin, RolePastor}, false},
		{"wrong role", RolePastor, []Role{RoleAdmin}, true},
		{"super admin not implicitly allowed", RoleSuperAdmin, []Role{RoleAdmin}, true},
		{"missing role", "", []Role{RoleAdmin, RolePastor, RoleSuperAdmin}, true},
		{"empty allowed set", RoleAdmin, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{UserID: "u", Role: tt.role}
			err := s.RequireRole(tt.allowed...)
			if tt.wantErr && !errors.Is(err, ErrForbidden) {
				t.Fatalf("want ErrForbidden, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTenantGuards(t *testing.T) {
	s := Session{UserID: "u", Role: RoleAdmin, ChurchID: "church-1"}

	if err := s.RequireTenant(); err != nil {
		t.Fatalf("RequireTenant: %v", err)
	}
	if err := s.MatchTenant("church-1"); err != nil {
		t.Fatalf("MatchTenant same church: %v", err)
	}
	if err := s.MatchTenant("church-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("MatchTenant other church: want ErrForbidden, got %v", err)
	}

	noTenant := Session{UserID: "u", Role: RoleSuperAdmin}
	if err := noTenant.RequireTenant(); !errors.Is(err, ErrForbidden) {
		t.Fatalf("RequireTenant without church: want ErrForbidden, got %v", err)
	}
	if err := noTenant.MatchTenant(""); !errors.Is(err, ErrForbidden) {
		t.Fatal("MatchTenant with empty ids must fail")
	}
}
