package handlers

import (
	"net/http"

	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/dispatch"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// Directory exported for testing purposes
type Directory struct {
	Directory *databases.Directory
	Dispatch  *dispatch.Coordinator
}

// Profile is the caller's account with what it may do
type Profile struct {
	User         models.AdminUser `json:"user"`
	Landing      string           `json:"landing"`
	Scope        string           `json:"scope"`
	Capabilities Capabilities     `json:"capabilities"`
}

// Capabilities drive which console surfaces are shown
type Capabilities struct {
	Triage         bool `json:"triage"`
	TriggerSOS     bool `json:"triggerSos"`
	OperateField   bool `json:"operateField"`
	ManageAccounts bool `json:"manageAccounts"`
	ReadAudit      bool `json:"readAudit"`
}

// MeHandler returns the caller's profile
func (d Directory) MeHandler(w http.ResponseWriter, r *http.Request) {
	u := identity.FromContext(r.Context())
	if u == nil {
		fail(w, "no user on request", models.ErrVisibilityViolation)
		return
	}
	s := visibility.Resolve(u)
	writeJSON(w, http.StatusOK, Profile{
		User:    *u,
		Landing: visibility.Landing(u.Role),
		Scope:   s.Group.String(),
		Capabilities: Capabilities{
			Triage:         s.CanTriage(),
			TriggerSOS:     s.CanTriggerSOS(),
			OperateField:   s.CanOperateField(),
			ManageAccounts: s.CanManageAccounts(),
			ReadAudit:      s.Audit() != visibility.AuditNone,
		},
	})
}

// AmbulancesHandler returns the roster units visible to the caller
func (d Directory) AmbulancesHandler(w http.ResponseWriter, r *http.Request) {
	units, err := d.Dispatch.AmbulancesFor(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		fail(w, "failed to get ambulances", err)
		return
	}
	if units == nil {
		units = []models.Ambulance{}
	}
	writeJSON(w, http.StatusOK, units)
}

// CompaniesHandler returns the tenants visible to the caller
func (d Directory) CompaniesHandler(w http.ResponseWriter, r *http.Request) {
	out := visibility.Resolve(identity.FromContext(r.Context())).Companies(d.Directory.Companies())
	if out == nil {
		out = []models.Company{}
	}
	writeJSON(w, http.StatusOK, out)
}

// ResourcesHandler returns the network resources visible to the caller
func (d Directory) ResourcesHandler(w http.ResponseWriter, r *http.Request) {
	out := visibility.Resolve(identity.FromContext(r.Context())).Resources(d.Directory.Resources())
	if out == nil {
		out = []models.Resource{}
	}
	writeJSON(w, http.StatusOK, out)
}

// EmployeesHandler returns the covered employees visible to the caller
func (d Directory) EmployeesHandler(w http.ResponseWriter, r *http.Request) {
	out := visibility.Resolve(identity.FromContext(r.Context())).Employees(d.Directory.Employees())
	if out == nil {
		out = []models.Employee{}
	}
	writeJSON(w, http.StatusOK, out)
}
