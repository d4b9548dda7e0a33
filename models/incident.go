package models

import "time"

// Priority is the ordinal triage tier of an incident, stored as the protocol letter
type Priority string

// Triage tiers, most severe first
const (
	PriorityCritical Priority = "A"
	PriorityHigh     Priority = "B"
	PriorityModerate Priority = "C"
	PriorityLow      Priority = "D"
)

// Valid reports whether p is one of the four tiers
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityModerate, PriorityLow:
		return true
	}
	return false
}

// Rank orders tiers so that CRITICAL has the highest rank
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityModerate:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Label returns the operator-facing name of the tier
func (p Priority) Label() string {
	switch p {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityModerate:
		return "MODERATE"
	case PriorityLow:
		return "LOW"
	}
	return "UNKNOWN"
}

// IncidentStatus is the lifecycle status of an incident
type IncidentStatus string

// Incident statuses
const (
	StatusActive  IncidentStatus = "active"
	StatusTriage  IncidentStatus = "triage"
	StatusTransit IncidentStatus = "transit"
	StatusClosed  IncidentStatus = "closed"
)

// Coordinates is a latitude/longitude pair in degrees
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" bson:"lng" validate:"gte=-180,lte=180"`
}

// EmergencyCase holds the structure for the incidents collection
type EmergencyCase struct {
	ID           string           `json:"_id" bson:"_id"`
	CreatedAt    time.Time        `json:"createdAt" bson:"createdAt"`
	Type         string           `json:"type" bson:"type"`
	LocationName string           `json:"locationName" bson:"locationName"`
	Coords       Coordinates      `json:"coords" bson:"coords"`
	Priority     Priority         `json:"priority" bson:"priority"`
	Status       IncidentStatus   `json:"status" bson:"status"`
	PatientName  string           `json:"patientName,omitempty" bson:"patientName,omitempty"`
	EmployeeID   string           `json:"employeeId,omitempty" bson:"employeeId,omitempty"`
	CompanyID    string           `json:"companyId,omitempty" bson:"companyId,omitempty"`
	Assignment   *Assignment      `json:"assignment,omitempty" bson:"assignment,omitempty"`
	Report       *OperationReport `json:"report,omitempty" bson:"report,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Closed reports whether the incident reached its terminal state
func (e *EmergencyCase) Closed() bool {
	return e.Status == StatusClosed
}

// Phase returns the phase of the attached assignment, or idle when no unit is attached
func (e *EmergencyCase) Phase() Phase {
	if e.Assignment == nil {
		return PhaseIdle
	}
	return e.Assignment.Phase
}

// Assignment is the per-incident view of the unit servicing it. The unit itself lives
// in the roster; the incident only keeps the reference and the mission-local fields.
type Assignment struct {
	AmbulanceID string             `json:"ambulanceId" bson:"ambulanceId"`
	CompanyID   string             `json:"companyId,omitempty" bson:"companyId,omitempty"`
	Phase       Phase              `json:"phase" bson:"phase"`
	ETA         int                `json:"eta" bson:"eta"`
	DistanceKm  float64            `json:"distanceKm" bson:"distanceKm"`
	AcceptBy    time.Time          `json:"acceptBy" bson:"acceptBy"`
	Timestamps  LifecycleTimestamps `json:"timestamps" bson:"timestamps"`
}

// LifecycleTimestamps are stamped at the moment each transition happens
type LifecycleTimestamps struct {
	Dispatched        time.Time `json:"dispatched" bson:"dispatched"`
	Accepted          time.Time `json:"accepted,omitempty" bson:"accepted,omitempty"`
	ArrivedAtPatient  time.Time `json:"arrivedAtPatient,omitempty" bson:"arrivedAtPatient,omitempty"`
	LeftForHospital   time.Time `json:"leftForHospital,omitempty" bson:"leftForHospital,omitempty"`
	ArrivedAtHospital time.Time `json:"arrivedAtHospital,omitempty" bson:"arrivedAtHospital,omitempty"`
	Closed            time.Time `json:"closed,omitempty" bson:"closed,omitempty"`
}

// Clone returns a deep copy so stored records never alias caller-owned values
func (e EmergencyCase) Clone() EmergencyCase {
	if e.Assignment != nil {
		a := *e.Assignment
		e.Assignment = &a
	}
	if e.Report != nil {
		r := *e.Report
		r.Procedures = append([]string(nil), e.Report.Procedures...)
		e.Report = &r
	}
	return e
}
