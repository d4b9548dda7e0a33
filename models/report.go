package models

import "time"

// Consciousness states accepted in a clinical report
const (
	Conscious   = "Consciente"
	Unconscious = "Inconsciente"
)

// VitalSigns are recorded as free text exactly as the paramedic typed them
type VitalSigns struct {
	BP   string `json:"bp" bson:"bp" validate:"required"`
	HR   string `json:"hr" bson:"hr" validate:"required"`
	SpO2 string `json:"spo2" bson:"spo2" validate:"required"`
}

// ReportInput is what the field unit submits to close a mission
type ReportInput struct {
	HospitalName       string     `json:"hospitalName" validate:"required"`
	ConsciousnessState string     `json:"consciousnessState" validate:"required,oneof=Consciente Inconsciente"`
	VitalSigns         VitalSigns `json:"vitalSigns"`
	Procedures         []string   `json:"procedures" validate:"required,dive,required"`
	Observations       string     `json:"observations" validate:"required"`
}

// OperationReport is the end-of-mission clinical report attached to a closed incident
type OperationReport struct {
	IncidentID         string              `json:"incidentId" bson:"incidentId"`
	AmbulanceID        string              `json:"ambulanceId" bson:"ambulanceId"`
	HospitalName       string              `json:"hospitalName" bson:"hospitalName"`
	ParamedicName      string              `json:"paramedicName" bson:"paramedicName"`
	ConsciousnessState string              `json:"consciousnessState" bson:"consciousnessState"`
	VitalSigns         VitalSigns          `json:"vitalSigns" bson:"vitalSigns"`
	Procedures         []string            `json:"procedures" bson:"procedures"`
	Observations       string              `json:"observations" bson:"observations"`
	Timestamps         LifecycleTimestamps `json:"timestamps" bson:"timestamps"`
	SubmittedAt        time.Time           `json:"submittedAt" bson:"submittedAt"`
}
