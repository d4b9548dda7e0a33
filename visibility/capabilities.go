package visibility

import "github.com/ssm-mz/dispatch-api/models"

// CanDispatch reports whether the scope may send the given unit. Coordinators may send
// any unit; fleet managers only their own.
func (s Scope) CanDispatch(a *models.Ambulance) bool {
	switch s.Group {
	case GroupUnrestricted:
		return s.Role != models.RoleRiskManager
	case GroupFleet:
		return s.Role == models.RoleFleetManager && a.CompanyID == s.CompanyID
	}
	return false
}

// CanOperateField reports whether the scope may drive mission transitions from the field
func (s Scope) CanOperateField() bool {
	switch s.Group {
	case GroupUnrestricted:
		return s.Role != models.RoleRiskManager
	case GroupFleet:
		return true
	}
	return false
}

// CanTriggerSOS reports whether the scope may raise a corporate panic alert
func (s Scope) CanTriggerSOS() bool {
	return s.Group == GroupCorporate
}

// CanTriage reports whether the scope may run the triage protocol and open incidents
func (s Scope) CanTriage() bool {
	return s.Group == GroupUnrestricted || s.Group == GroupCorporate
}

// AuditView says which slice of the audit trail a scope may read
type AuditView int

// Audit views
const (
	AuditNone AuditView = iota
	AuditOwn
	AuditCompany
	AuditAll
)

// Audit resolves the audit view of the scope
func (s Scope) Audit() AuditView {
	switch {
	case s.Role == models.RoleAdminSSM || s.Role == models.RoleRiskManager:
		return AuditAll
	case s.Group == GroupCorporate && s.Role == models.RoleClientAdmin:
		return AuditCompany
	case s.Group == GroupFleet && s.Role == models.RoleFleetManager:
		return AuditCompany
	case s.Group != GroupNone:
		return AuditOwn
	}
	return AuditNone
}

// CanManageAccounts reports whether the scope may administer console accounts
func (s Scope) CanManageAccounts() bool {
	return s.Role == models.RoleAdminSSM
}

// Landing is the first surface shown to a role after login
func Landing(role models.Role) string {
	switch GroupOf(role) {
	case GroupCorporate:
		return "corporate_sos"
	}
	switch role {
	case models.RoleFleetManager:
		return "fleet"
	case models.RoleAmbulanceDriver:
		return "field_terminal"
	}
	return "dashboard"
}
