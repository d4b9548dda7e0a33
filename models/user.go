package models

// Role is one of the eight console roles
type Role string

// Console roles
const (
	RoleAdminSSM                Role = "ADMIN_SSM"
	RoleOperatorCoord           Role = "OPERADOR_COORD"
	RoleRiskManager             Role = "GESTOR_RISCO"
	RoleAmbulanceDriver         Role = "MOTORISTA_AMB"
	RoleFleetManager            Role = "GESTOR_FROTA_AMB"
	RoleClientAdmin             Role = "ADMIN_CLIENTE"
	RoleClientEmergencyResponse Role = "RESPONSAVEL_EMERG_CLIENTE"
	RoleHRCollaborator          Role = "COLABORADOR_RH"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdminSSM, RoleOperatorCoord, RoleRiskManager, RoleAmbulanceDriver,
		RoleFleetManager, RoleClientAdmin, RoleClientEmergencyResponse, RoleHRCollaborator:
		return true
	}
	return false
}

// AdminUser holds the structure for a console account
type AdminUser struct {
	ID           string          `json:"_id" bson:"_id" yaml:"id"`
	Name         string          `json:"name" bson:"name" yaml:"name"`
	Username     string          `json:"username" bson:"username" yaml:"username"`
	Email        string          `json:"email" bson:"email" yaml:"email"`
	Password     string          `json:"-" bson:"password" yaml:"password"`
	Role         Role            `json:"role" bson:"role" yaml:"role"`
	CompanyID    string          `json:"companyId,omitempty" bson:"companyId,omitempty" yaml:"companyId"`
	UnitID       string          `json:"unitId,omitempty" bson:"unitId,omitempty" yaml:"unitId"`
	Phone        string          `json:"phone,omitempty" bson:"phone,omitempty" yaml:"phone"`
	Initials     string          `json:"initials,omitempty" bson:"initials,omitempty" yaml:"initials"`
	IsFirstLogin bool            `json:"isFirstAccess,omitempty" bson:"isFirstAccess,omitempty" yaml:"isFirstAccess"`
	Preferences  UserPreferences `json:"preferences" bson:"preferences" yaml:"preferences"`
}

// UserPreferences holds display and notification settings
type UserPreferences struct {
	Language string `json:"language" bson:"language" yaml:"language"`
	Timezone string `json:"timezone" bson:"timezone" yaml:"timezone"`
	Theme    string `json:"theme" bson:"theme" yaml:"theme"`
}
