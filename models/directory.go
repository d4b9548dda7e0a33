package models

// Company holds the structure for a tenant, either a corporate client or an ambulance operator
type Company struct {
	ID             string      `json:"_id" bson:"_id" yaml:"id"`
	Name           string      `json:"name" bson:"name" yaml:"name"`
	Logo           string      `json:"logo,omitempty" bson:"logo,omitempty" yaml:"logo"`
	Color          string      `json:"color,omitempty" bson:"color,omitempty" yaml:"color"`
	Type           string      `json:"type" bson:"type" yaml:"type"`
	Plan           string      `json:"plan" bson:"plan" yaml:"plan"`
	ContractEnd    string      `json:"contractEnd" bson:"contractEnd" yaml:"contractEnd"`
	TotalEmployees int         `json:"totalEmployees" bson:"totalEmployees" yaml:"totalEmployees"`
	Headquarters   Coordinates `json:"headquarters" bson:"headquarters" yaml:"headquarters"`
}

// Employee holds a covered employee's clinical and insurance record
type Employee struct {
	ID               string           `json:"_id" bson:"_id" yaml:"id"`
	CompanyID        string           `json:"companyId" bson:"companyId" yaml:"companyId"`
	Name             string           `json:"name" bson:"name" yaml:"name"`
	IDDocument       string           `json:"bi" bson:"bi" yaml:"bi"`
	Age              int              `json:"age" bson:"age" yaml:"age"`
	Sex              string           `json:"sex" bson:"sex" yaml:"sex"`
	BloodType        string           `json:"bloodType" bson:"bloodType" yaml:"bloodType"`
	Insurer          string           `json:"insurer" bson:"insurer" yaml:"insurer"`
	PolicyNumber     string           `json:"policyNumber" bson:"policyNumber" yaml:"policyNumber"`
	PolicyValidity   string           `json:"policyValidity" bson:"policyValidity" yaml:"policyValidity"`
	EmergencyContact EmergencyContact `json:"emergencyContact" bson:"emergencyContact" yaml:"emergencyContact"`
	Allergies        []string         `json:"allergies,omitempty" bson:"allergies,omitempty" yaml:"allergies"`
	Medications      []string         `json:"medications,omitempty" bson:"medications,omitempty" yaml:"medications"`
	MedicalHistory   string           `json:"medicalHistory,omitempty" bson:"medicalHistory,omitempty" yaml:"medicalHistory"`
}

// EmergencyContact is the person to call for an employee
type EmergencyContact struct {
	Name     string `json:"name" bson:"name" yaml:"name"`
	Relation string `json:"relation" bson:"relation" yaml:"relation"`
	Phone    string `json:"phone" bson:"phone" yaml:"phone"`
}

// ResourceCategory groups resources for the network map
type ResourceCategory string

// Resource categories
const (
	CategoryAmbulance ResourceCategory = "ambulance"
	CategoryHospital  ResourceCategory = "hospital"
	CategoryTeam      ResourceCategory = "team"
)

// Resource is a network asset; a resource without a company is public
type Resource struct {
	ID        string           `json:"_id" bson:"_id" yaml:"id"`
	Name      string           `json:"name" bson:"name" yaml:"name"`
	Type      string           `json:"type" bson:"type" yaml:"type"`
	Category  ResourceCategory `json:"category" bson:"category" yaml:"category"`
	Status    string           `json:"status" bson:"status" yaml:"status"`
	Location  string           `json:"location" bson:"location" yaml:"location"`
	Coords    *Coordinates     `json:"coords,omitempty" bson:"coords,omitempty" yaml:"coords"`
	CompanyID string           `json:"companyId,omitempty" bson:"companyId,omitempty" yaml:"companyId"`
	Capacity  string           `json:"capacity,omitempty" bson:"capacity,omitempty" yaml:"capacity"`
	Equipment []string         `json:"equipment,omitempty" bson:"equipment,omitempty" yaml:"equipment"`
}

// RankedResource is a resource annotated with its distance to an incident
type RankedResource struct {
	Resource
	DistanceKm float64 `json:"distance"`
}
