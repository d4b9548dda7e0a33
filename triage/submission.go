package triage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ssm-mz/dispatch-api/models"
)

// DefaultLocation is used when the intake names no place
const DefaultLocation = "Local Não Especificado"

// Maputo is where an incident is pinned when the intake carries no coordinates
var Maputo = models.Coordinates{Lat: -25.9692, Lng: 32.5732}

// NewIncident builds the case an operator opens from a triage result. The case starts
// active with no unit attached and belongs to the actor's company, or to SSM.
func NewIncident(sub models.TriageSubmission, actor *models.AdminUser, now time.Time) models.EmergencyCase {
	location := strings.TrimSpace(sub.Intake.Location)
	if location == "" {
		location = DefaultLocation
	}
	coords := Maputo
	if sub.Intake.Coords != nil {
		coords = *sub.Intake.Coords
	}
	company := "SSM"
	if actor != nil && actor.CompanyID != "" {
		company = actor.CompanyID
	}
	employee := sub.Intake.EmployeeID
	if employee == "" {
		employee = "EXTERNAL"
	}
	now = now.UTC()
	return models.EmergencyCase{
		ID:           CaseID("SSM-MZ"),
		CreatedAt:    now,
		UpdatedAt:    now,
		Type:         sub.Suggestion.ActionRequired,
		LocationName: location,
		Coords:       coords,
		Priority:     sub.Suggestion.Classification,
		Status:       models.StatusActive,
		PatientName:  strings.TrimSpace(sub.Intake.PatientName),
		EmployeeID:   employee,
		CompanyID:    company,
	}
}

// CaseID returns a new case id under prefix, e.g. SSM-MZ-1F3A09BC
func CaseID(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
