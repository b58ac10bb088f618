package approval

import (
	"sort"
	"testing"
)

func TestRole_Canonical(t *testing.T) {
	tests := []struct {
		role     Role
		expected Role
	}{
		{RoleDepartmentManager, RoleDepartmentManager},
		{RoleGeneralManager, RoleGeneralManager},
		{RoleHRUser, RoleHR},
		{RoleHRSupervisor, RoleHR},
		{RoleAdmin, RoleHR},
		{Role("unknown"), Role("unknown")},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Canonical(); got != tt.expected {
				t.Errorf("Canonical() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRole_IsHRSupervisor(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleAdmin, true},
		{RoleHRSupervisor, true},
		// ik_user can act at the hr stage but cannot decide revisions
		{RoleHRUser, false},
		{RoleDepartmentManager, false},
		{RoleGeneralManager, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsHRSupervisor(); got != tt.expected {
				t.Errorf("IsHRSupervisor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, role := range []Role{RoleDepartmentManager, RoleGeneralManager, RoleHRUser, RoleHRSupervisor, RoleAdmin} {
		if !role.IsValid() {
			t.Errorf("IsValid(%s) = false, want true", role)
		}
	}
	// The canonical hr role is a matching target, not an actor role.
	if RoleHR.IsValid() {
		t.Error("IsValid(hr) = true, want false")
	}
	if Role("").IsValid() {
		t.Error("IsValid(\"\") = true, want false")
	}
}

func TestRolesMatching(t *testing.T) {
	got := RolesMatching(RoleHR)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := []Role{RoleAdmin, RoleHRSupervisor, RoleHRUser}
	if len(got) != len(want) {
		t.Fatalf("RolesMatching(hr) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RolesMatching(hr)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := RolesMatching(RoleDepartmentManager); len(got) != 1 || got[0] != RoleDepartmentManager {
		t.Errorf("RolesMatching(dm) = %v, want [dm]", got)
	}
}
