package models

// ProtocolSuggestion is the shared result shape of both triage modes
type ProtocolSuggestion struct {
	Classification     Priority `json:"classification"`
	ActionRequired     string   `json:"actionRequired"`
	Reasoning          string   `json:"reasoning"`
	SuggestedResources []string `json:"suggestedResources"`
	Stage              int      `json:"stage,omitempty"`
}

// TriageIntake is the stage-0 data collected before any discriminator
type TriageIntake struct {
	Company     string       `json:"company"`
	PatientName string       `json:"patientName"`
	Age         string       `json:"age"`
	Location    string       `json:"location"`
	Contact     string       `json:"contact"`
	Coords      *Coordinates `json:"coords,omitempty" validate:"omitempty"`
	EmployeeID  string       `json:"employeeId,omitempty"`
}

// TriageSubmission turns a suggestion into a new incident
type TriageSubmission struct {
	Suggestion ProtocolSuggestion `json:"suggestion"`
	Intake     TriageIntake       `json:"intake"`
}
