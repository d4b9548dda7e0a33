// Package audit keeps the tamper-evident trail of operator and field actions.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/models"
)

// DefaultCapacity is how many of the most recent entries the trail keeps
const DefaultCapacity = 500

// Event is a single action to be recorded
type Event struct {
	Actor      models.Actor
	Action     models.AuditAction
	ResourceID string
	Details    string
	IP         string
	// Severity overrides the severity derived from Action when set
	Severity models.Severity
}

// Recorder is the write side of the trail. Callers never wait on or inspect the result.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Service stores audit entries and answers trail queries
type Service struct {
	DB       databases.AuditDatabase
	Capacity int
	now      func() time.Time
}

// NewService creates an audit service over the given store
func NewService(db databases.AuditDatabase, capacity int) *Service {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Service{DB: db, Capacity: capacity, now: time.Now}
}

// Record builds, fingerprints and stores an entry. Storage failures are logged only.
func (s *Service) Record(ctx context.Context, ev Event) {
	entry := models.AuditLog{
		ID:         "LOG-" + uuid.NewString(),
		Timestamp:  s.now().UTC().Truncate(time.Millisecond),
		UserID:     ev.Actor.ID,
		UserName:   ev.Actor.Name,
		UserRole:   ev.Actor.Role,
		CompanyID:  ev.Actor.CompanyID,
		Action:     ev.Action,
		ResourceID: ev.ResourceID,
		Details:    ev.Details,
		Severity:   ev.Severity,
		IP:         ev.IP,
	}
	if entry.Details == "" {
		entry.Details = DefaultDetails(ev.Action, ev.ResourceID)
	}
	if entry.Severity == "" {
		entry.Severity = SeverityOf(ev.Action)
	}
	entry.IntegrityHash = Fingerprint(entry)

	if err := s.DB.InsertOne(ctx, &entry); err != nil {
		zap.S().Errorw("failed to store audit entry",
			"action", entry.Action,
			"user", entry.UserID,
			"error", err)
		return
	}
	zap.S().Infow("audit",
		"action", entry.Action,
		"user", entry.UserName,
		"severity", entry.Severity,
		"hash", entry.IntegrityHash)
}

// All returns the retained trail, newest first
func (s *Service) All(ctx context.Context) ([]models.AuditLog, error) {
	return s.find(ctx, databases.AuditFilter{})
}

// ByUser returns the retained entries of one user, newest first
func (s *Service) ByUser(ctx context.Context, userID string) ([]models.AuditLog, error) {
	return s.find(ctx, databases.AuditFilter{UserID: userID})
}

// ByCompany returns the retained entries attributed to one company, newest first
func (s *Service) ByCompany(ctx context.Context, companyID string) ([]models.AuditLog, error) {
	return s.find(ctx, databases.AuditFilter{CompanyID: companyID})
}

func (s *Service) find(ctx context.Context, filter databases.AuditFilter) ([]models.AuditLog, error) {
	// retention is applied to the whole trail, so the window is taken before filtering
	all, err := s.DB.Find(ctx, databases.AuditFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to read audit trail: %w", err)
	}
	if len(all) > s.Capacity {
		all = all[:s.Capacity]
	}
	out := make([]models.AuditLog, 0, len(all))
	for _, e := range all {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.CompanyID != "" && e.CompanyID != filter.CompanyID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Prune drops entries beyond the retention window
func (s *Service) Prune(ctx context.Context) (int64, error) {
	return s.DB.Trim(ctx, s.Capacity)
}

// SeverityOf derives the default severity of an action
func SeverityOf(action models.AuditAction) models.Severity {
	switch action {
	case models.ActionCorporateSOSTriggered, models.ActionDispatchAmbulance:
		return models.SeverityCritical
	case models.ActionMissionFinalized, models.ActionMissionFinalizedReport,
		models.ActionAmbulancePhaseChange, models.ActionDispatchAcceptanceTimeout:
		return models.SeverityWarning
	}
	return models.SeverityInfo
}

// DefaultDetails is the detail text used when the caller gives none
func DefaultDetails(action models.AuditAction, resourceID string) string {
	switch action {
	case models.ActionDispatchAmbulance:
		return fmt.Sprintf("Despacho de unidade móvel para o incidente %s", resourceID)
	case models.ActionAmbulancePhaseChange:
		return fmt.Sprintf("Alteração de estado da unidade para o incidente %s", resourceID)
	case models.ActionMissionFinalized:
		return fmt.Sprintf("Missão concluída com sucesso. Relatório arquivado para %s", resourceID)
	case models.ActionMissionAcceptedField:
		return fmt.Sprintf("Missão aceite via terminal de campo para o incidente %s", resourceID)
	case models.ActionMissionFinalizedReport:
		return fmt.Sprintf("Missão finalizada com submissão de relatório clínico para o incidente %s", resourceID)
	case models.ActionCorporateSOSTriggered:
		return fmt.Sprintf("Botão de pânico acionado por entidade cliente. Incidente %s", resourceID)
	case models.ActionDispatchAcceptanceTimeout:
		return fmt.Sprintf("Timeout de aceitação: despacho removido do incidente %s", resourceID)
	}
	return "Ação do utilizador registada no sistema."
}

// Fingerprint hashes every field of the entry except the hash itself
func Fingerprint(entry models.AuditLog) string {
	entry.IntegrityHash = ""
	b, _ := json.Marshal(entry)
	sum := sha256.Sum256(b)
	return "SSM-" + strings.ToUpper(hex.EncodeToString(sum[:8]))
}

// Verify reports whether an entry still matches its fingerprint
func Verify(entry models.AuditLog) bool {
	return entry.IntegrityHash != "" && Fingerprint(entry) == entry.IntegrityHash
}
