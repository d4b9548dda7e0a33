// Package visibility resolves what an actor may see and act on.
//
// Every surface projects the global collections through the Scope returned by Resolve
// instead of testing role membership on its own.
package visibility

import (
	"github.com/ssm-mz/dispatch-api/models"
)

// Group is one of the three disjoint role groups
type Group int

// Role groups
const (
	// GroupNone is the scope of an unauthenticated caller; it sees nothing
	GroupNone Group = iota
	// GroupUnrestricted sees every collection unfiltered
	GroupUnrestricted
	// GroupCorporate is a client tenant, scoped by incident and employee ownership
	GroupCorporate
	// GroupFleet is an ambulance operator, scoped by the units it runs
	GroupFleet
)

func (g Group) String() string {
	switch g {
	case GroupUnrestricted:
		return "unrestricted"
	case GroupCorporate:
		return "corporate"
	case GroupFleet:
		return "fleet"
	}
	return "none"
}

// GroupOf returns the role group a role belongs to, ignoring company affiliation
func GroupOf(role models.Role) Group {
	switch role {
	case models.RoleHRCollaborator, models.RoleClientAdmin, models.RoleClientEmergencyResponse:
		return GroupCorporate
	case models.RoleFleetManager, models.RoleAmbulanceDriver:
		return GroupFleet
	case "":
		return GroupNone
	}
	return GroupUnrestricted
}

// Scope is the typed visibility descriptor of one actor
type Scope struct {
	Group     Group
	Role      models.Role
	CompanyID string
	UserID    string
}

// Resolve derives the scope of an actor. A corporate or fleet role without a company
// affiliation has nothing to be scoped by and falls back to unrestricted.
func Resolve(actor *models.AdminUser) Scope {
	if actor == nil {
		return Scope{Group: GroupNone}
	}
	s := Scope{Group: GroupOf(actor.Role), Role: actor.Role, CompanyID: actor.CompanyID, UserID: actor.ID}
	if (s.Group == GroupCorporate || s.Group == GroupFleet) && s.CompanyID == "" {
		s.Group = GroupUnrestricted
	}
	return s
}

// Restricted reports whether the scope filters anything at all
func (s Scope) Restricted() bool {
	return s.Group == GroupCorporate || s.Group == GroupFleet
}

// CanSeeIncident applies the incident rule to a single record
func (s Scope) CanSeeIncident(inc *models.EmergencyCase) bool {
	switch s.Group {
	case GroupUnrestricted:
		return true
	case GroupCorporate:
		return inc.CompanyID == s.CompanyID
	case GroupFleet:
		return inc.Assignment != nil && inc.Assignment.CompanyID == s.CompanyID
	}
	return false
}

// CanSeeAmbulance applies the ambulance rule to a single unit
func (s Scope) CanSeeAmbulance(a *models.Ambulance) bool {
	switch s.Group {
	case GroupUnrestricted, GroupCorporate:
		return true
	case GroupFleet:
		return a.CompanyID == s.CompanyID
	}
	return false
}

// CanSeeCompany applies the company rule to a single tenant
func (s Scope) CanSeeCompany(c *models.Company) bool {
	switch s.Group {
	case GroupUnrestricted:
		return true
	case GroupCorporate, GroupFleet:
		return c.ID == s.CompanyID
	}
	return false
}

// CanSeeResource applies the resource rule; company-less resources are public
func (s Scope) CanSeeResource(r *models.Resource) bool {
	switch s.Group {
	case GroupUnrestricted, GroupCorporate:
		return true
	case GroupFleet:
		return r.CompanyID == "" || r.CompanyID == s.CompanyID
	}
	return false
}

// CanSeeEmployee applies the employee rule to a single record
func (s Scope) CanSeeEmployee(e *models.Employee) bool {
	switch s.Group {
	case GroupUnrestricted, GroupFleet:
		return true
	case GroupCorporate:
		return e.CompanyID == s.CompanyID
	}
	return false
}

// Incidents projects the incident collection
func (s Scope) Incidents(all []models.EmergencyCase) []models.EmergencyCase {
	return filter(all, s.CanSeeIncident)
}

// Ambulances projects the fleet roster
func (s Scope) Ambulances(all []models.Ambulance) []models.Ambulance {
	return filter(all, s.CanSeeAmbulance)
}

// Companies projects the tenant list
func (s Scope) Companies(all []models.Company) []models.Company {
	return filter(all, s.CanSeeCompany)
}

// Resources projects the network resources
func (s Scope) Resources(all []models.Resource) []models.Resource {
	return filter(all, s.CanSeeResource)
}

// Employees projects the covered employees
func (s Scope) Employees(all []models.Employee) []models.Employee {
	return filter(all, s.CanSeeEmployee)
}

func filter[T any](all []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}
