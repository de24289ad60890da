package auth

import (
	"github.com/crewtrack/crewtrack/pkg/model"
)

type Capability string

const (
	CapManageTenants      Capability = "MANAGE_TENANTS"
	CapManageUsers        Capability = "MANAGE_USERS"
	CapManageClients      Capability = "MANAGE_CLIENTS"
	CapManageSites        Capability = "MANAGE_SITES"
	CapManageTools        Capability = "MANAGE_TOOLS"
	CapApproveTimesheets  Capability = "APPROVE_TIMESHEETS"
	CapApproveLeave       Capability = "APPROVE_LEAVE"
	CapViewReports        Capability = "VIEW_REPORTS"
	CapRunPayroll         Capability = "RUN_PAYROLL"
	CapValidateTimesheets Capability = "VALIDATE_TIMESHEETS"
	CapImpersonate        Capability = "IMPERSONATE"
)

// roleRank backs the hierarchical check used for nav/UI-style gating.
var roleRank = map[model.Role]int{
	model.RoleSuperadmin: 100,
	model.RoleAdmin:      80,
	model.RoleManager:    60,
	model.RoleEmployee:   40,
	model.RoleClient:     20,
}

// capabilityRoles is an exact allow-list, deliberately not hierarchical:
// a manager out-ranks a client yet holds no VALIDATE_TIMESHEETS, and does
// not hold MANAGE_CLIENTS despite out-ranking employees.
var capabilityRoles = map[Capability][]model.Role{
	CapManageTenants:      {model.RoleSuperadmin},
	CapManageUsers:        {model.RoleSuperadmin, model.RoleAdmin},
	CapManageClients:      {model.RoleSuperadmin, model.RoleAdmin},
	CapManageSites:        {model.RoleSuperadmin, model.RoleAdmin},
	CapManageTools:        {model.RoleSuperadmin, model.RoleAdmin, model.RoleManager},
	CapApproveTimesheets:  {model.RoleSuperadmin, model.RoleAdmin, model.RoleManager},
	CapApproveLeave:       {model.RoleSuperadmin, model.RoleAdmin, model.RoleManager},
	CapViewReports:        {model.RoleSuperadmin, model.RoleAdmin, model.RoleManager},
	CapRunPayroll:         {model.RoleSuperadmin, model.RoleAdmin},
	CapValidateTimesheets: {model.RoleClient},
	CapImpersonate:        {model.RoleSuperadmin},
}

// HasRole reports whether role ranks at least as high as minimum. Unknown
// roles rank zero and never pass.
func HasRole(role, minimum model.Role) bool {
	return roleRank[role] >= roleRank[minimum] && roleRank[role] > 0
}

// HasPermission checks the exact allow-list for a capability.
func HasPermission(role model.Role, capability Capability) bool {
	for _, allowed := range capabilityRoles[capability] {
		if allowed == role {
			return true
		}
	}
	return false
}

func ValidRole(role model.Role) bool {
	_, ok := roleRank[role]
	return ok
}
