package models

import "time"

// AuditAction is one of the fixed audit action kinds
type AuditAction string

// Audit actions
const (
	ActionLoginSuccess              AuditAction = "LOGIN_SUCCESS"
	ActionLogoutManual              AuditAction = "LOGOUT_MANUAL"
	ActionLogoutSessionExpired      AuditAction = "LOGOUT_SESSION_EXPIRED"
	ActionDispatchAmbulance         AuditAction = "DISPATCH_AMBULANCE"
	ActionAmbulancePhaseChange      AuditAction = "AMBULANCE_PHASE_CHANGE"
	ActionMissionFinalized          AuditAction = "MISSION_FINALIZED"
	ActionMissionAcceptedField      AuditAction = "MISSION_ACCEPTED_FIELD"
	ActionMissionFinalizedReport    AuditAction = "MISSION_FINALIZED_WITH_REPORT"
	ActionProtocolTriageGenerated   AuditAction = "PROTOCOL_TRIAGE_GENERATED"
	ActionCorporateSOSTriggered     AuditAction = "CORPORATE_SOS_TRIGGERED"
	ActionCommunicationLogged       AuditAction = "COMMUNICATION_LOGGED"
	ActionDataExportPDF             AuditAction = "DATA_EXPORT_PDF"
	ActionDataExportExcel           AuditAction = "DATA_EXPORT_EXCEL"
	ActionDispatchAcceptanceTimeout AuditAction = "DISPATCH_ACCEPTANCE_TIMEOUT"
)

// Severity is the audit severity level
type Severity string

// Severities
const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Actor is the minimal identity an audit entry is attributed to
type Actor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
}

// ActorOf extracts the audit identity of a user
func ActorOf(u *AdminUser) Actor {
	if u == nil {
		return Actor{ID: "SYSTEM", Name: "SSM Dispatch"}
	}
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role, CompanyID: u.CompanyID}
}

// AuditLog holds the structure for the audit trail collection
type AuditLog struct {
	ID            string      `json:"_id" bson:"_id"`
	Timestamp     time.Time   `json:"timestamp" bson:"timestamp"`
	UserID        string      `json:"userId" bson:"userId"`
	UserName      string      `json:"userName" bson:"userName"`
	UserRole      Role        `json:"userRole" bson:"userRole"`
	CompanyID     string      `json:"companyId,omitempty" bson:"companyId,omitempty"`
	Action        AuditAction `json:"action" bson:"action"`
	ResourceID    string      `json:"resourceId,omitempty" bson:"resourceId,omitempty"`
	Details       string      `json:"details" bson:"details"`
	Severity      Severity    `json:"severity" bson:"severity"`
	IP            string      `json:"ip,omitempty" bson:"ip,omitempty"`
	IntegrityHash string      `json:"integrityHash" bson:"integrityHash"`
}
