package models

// Phase is the position of a unit in the mission state machine
type Phase string

// Mission phases in the only order they may be visited
const (
	PhaseIdle             Phase = "idle"
	PhasePendingAccept    Phase = "pending_accept"
	PhaseEnRouteToPatient Phase = "en_route_to_patient"
	PhaseAtPatient        Phase = "at_patient"
	PhaseEvacuating       Phase = "evacuating"
	PhaseAtHospital       Phase = "at_hospital"
)

// Next returns the phase that follows p on the mission path. at_hospital wraps to idle.
func (p Phase) Next() Phase {
	switch p {
	case PhaseIdle:
		return PhasePendingAccept
	case PhasePendingAccept:
		return PhaseEnRouteToPatient
	case PhaseEnRouteToPatient:
		return PhaseAtPatient
	case PhaseAtPatient:
		return PhaseEvacuating
	case PhaseEvacuating:
		return PhaseAtHospital
	case PhaseAtHospital:
		return PhaseIdle
	}
	return ""
}

// UnitStatus is the operational status of a fleet unit
type UnitStatus string

// Unit statuses
const (
	UnitAvailable   UnitStatus = "available"
	UnitMaintenance UnitStatus = "maintenance"
	UnitBreak       UnitStatus = "break"
)

// UnitClass is the equipment class of an ambulance
type UnitClass string

// Unit classes
const (
	ClassBasic    UnitClass = "Básica"
	ClassAdvanced UnitClass = "Avançada"
	ClassRescue   UnitClass = "Resgate"
)

// Ambulance holds the structure for the ambulances collection, the single source of
// truth for a unit's phase and position
type Ambulance struct {
	ID          string      `json:"_id" bson:"_id" yaml:"id"`
	Plate       string      `json:"plate" bson:"plate" yaml:"plate"`
	Class       UnitClass   `json:"type" bson:"type" yaml:"type"`
	Position    Coordinates `json:"currentPos" bson:"currentPos" yaml:"currentPos"`
	Phase       Phase       `json:"phase" bson:"phase" yaml:"phase"`
	Status      UnitStatus  `json:"status" bson:"status" yaml:"status"`
	CompanyID   string      `json:"companyId,omitempty" bson:"companyId,omitempty" yaml:"companyId"`
	IncidentID  string      `json:"incidentId,omitempty" bson:"incidentId,omitempty" yaml:"-"`
	Performance Performance `json:"performance" bson:"performance" yaml:"performance"`
}

// Assignable reports whether the unit can take a new mission
func (a *Ambulance) Assignable() bool {
	return a.Status == UnitAvailable && (a.Phase == PhaseIdle || a.Phase == "") && a.IncidentID == ""
}

// Performance holds per-unit mission counters
type Performance struct {
	TotalIncidents  int     `json:"totalIncidents" bson:"totalIncidents" yaml:"totalIncidents"`
	Offered         int     `json:"offered" bson:"offered" yaml:"offered"`
	Accepted        int     `json:"accepted" bson:"accepted" yaml:"accepted"`
	AcceptanceRate  float64 `json:"acceptanceRate" bson:"acceptanceRate" yaml:"acceptanceRate"`
	AvgResponseTime float64 `json:"avgResponseTime" bson:"avgResponseTime" yaml:"avgResponseTime"`
}

// RankedUnit is an ambulance annotated with its distance and ETA to an incident
type RankedUnit struct {
	Ambulance
	DistanceKm float64 `json:"distance"`
	ETA        int     `json:"eta"`
}
