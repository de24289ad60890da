package auth

import (
	"testing"

	"github.com/crewtrack/crewtrack/pkg/model"
)

func TestHasRoleHierarchy(t *testing.T) {
	cases := []struct {
		role    model.Role
		minimum model.Role
		want    bool
	}{
		{model.RoleSuperadmin, model.RoleManager, true},
		{model.RoleAdmin, model.RoleManager, true},
		{model.RoleManager, model.RoleManager, true},
		{model.RoleEmployee, model.RoleManager, false},
		{model.RoleClient, model.RoleEmployee, false},
		{model.RoleEmployee, model.RoleClient, true},
		{model.Role("unknown"), model.RoleClient, false},
	}

	for _, c := range cases {
		if got := HasRole(c.role, c.minimum); got != c.want {
			t.Errorf("HasRole(%s, %s) = %v, want %v", c.role, c.minimum, got, c.want)
		}
	}
}

func TestHasRoleUnknownMinimum(t *testing.T) {
	// An unknown minimum must not act as an open gate for unknown roles.
	if HasRole(model.Role("ghost"), model.Role("ghost")) {
		t.Fatal("unknown role passed an unknown minimum")
	}
}

func TestPermissionMatrixIsExactNotHierarchical(t *testing.T) {
	// Manager out-ranks employee yet the MANAGE_CLIENTS allow-list is
	// admin-and-up only.
	if HasPermission(model.RoleManager, CapManageClients) {
		t.Error("manager must not hold MANAGE_CLIENTS")
	}
	if !HasPermission(model.RoleAdmin, CapManageClients) {
		t.Error("admin must hold MANAGE_CLIENTS")
	}

	// VALIDATE_TIMESHEETS belongs to the lowest-ranked role only.
	if !HasPermission(model.RoleClient, CapValidateTimesheets) {
		t.Error("client must hold VALIDATE_TIMESHEETS")
	}
	if HasPermission(model.RoleManager, CapValidateTimesheets) {
		t.Error("manager must not hold VALIDATE_TIMESHEETS despite out-ranking client")
	}
}

func TestManagerApprovalPermissions(t *testing.T) {
	for _, capability := range []Capability{CapApproveTimesheets, CapApproveLeave, CapManageTools, CapViewReports} {
		if !HasPermission(model.RoleManager, capability) {
			t.Errorf("manager must hold %s", capability)
		}
	}
	if HasPermission(model.RoleEmployee, CapApproveTimesheets) {
		t.Error("employee must not hold APPROVE_TIMESHEETS")
	}
}

func TestImpersonationIsSuperadminOnly(t *testing.T) {
	if !HasPermission(model.RoleSuperadmin, CapImpersonate) {
		t.Error("superadmin must hold IMPERSONATE")
	}
	for _, role := range []model.Role{model.RoleAdmin, model.RoleManager, model.RoleEmployee, model.RoleClient} {
		if HasPermission(role, CapImpersonate) {
			t.Errorf("%s must not hold IMPERSONATE", role)
		}
	}
}
