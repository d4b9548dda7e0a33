// Package comms is the append-only communication ledger attached to each incident.
package comms

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/models"
)

// DefaultType is the entry type used when the sender gives none
const DefaultType = "SYSTEM"

// Ledger appends and lists communication entries. Entries are never changed once written.
type Ledger struct {
	DB    databases.CommunicationDatabase
	Audit audit.Recorder

	mu       sync.Mutex
	lastSeq  int64
	validate *validator.Validate
	now      func() time.Time
}

// NewLedger creates a ledger over the given store
func NewLedger(db databases.CommunicationDatabase, rec audit.Recorder) *Ledger {
	return &Ledger{DB: db, Audit: rec, validate: validator.New(), now: time.Now}
}

// Append writes a new entry from the actor. Critical entries are also escalated to the
// audit trail at CRITICAL severity.
func (l *Ledger) Append(ctx context.Context, actor *models.AdminUser, incidentID string, in models.CommunicationInput) (*models.CommunicationLog, error) {
	in.Message = strings.TrimSpace(in.Message)
	if err := l.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if in.Type == "" {
		in.Type = DefaultType
	}
	sender := models.ActorOf(actor)

	entry := &models.CommunicationLog{
		ID:         "COMM-" + uuid.NewString(),
		IncidentID: incidentID,
		Channel:    in.Channel,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		SenderRole: sender.Role,
		Message:    in.Message,
		Type:       in.Type,
		IsCritical: in.IsCritical,
	}
	l.stamp(entry)
	if err := l.DB.InsertOne(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store communication for %s: %w", incidentID, err)
	}
	zap.S().Infow("communication logged",
		"incident", incidentID,
		"channel", entry.Channel,
		"sender", entry.SenderID,
		"critical", entry.IsCritical)

	if entry.IsCritical {
		l.Audit.Record(ctx, audit.Event{
			Actor:      sender,
			Action:     models.ActionCommunicationLogged,
			ResourceID: incidentID,
			Details:    "Comunicação Crítica Registada: " + entry.Message,
			Severity:   models.SeverityCritical,
		})
	}
	return entry, nil
}

// stamp assigns the timestamp and a strictly increasing sequence number
func (l *Ledger) stamp(entry *models.CommunicationLog) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now().UTC().Truncate(time.Millisecond)
	seq := now.UnixNano()
	if seq <= l.lastSeq {
		seq = l.lastSeq + 1
	}
	l.lastSeq = seq
	entry.Timestamp = now
	entry.SequenceNum = seq
}

// List returns the entries of an incident in the order they were written. An empty
// channel lists every channel.
func (l *Ledger) List(ctx context.Context, incidentID string, channel models.Channel) ([]models.CommunicationLog, error) {
	if channel != "" && !channel.Valid() {
		return nil, fmt.Errorf("%w: unknown channel %q", models.ErrValidation, channel)
	}
	entries, err := l.DB.Find(ctx, incidentID, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications for %s: %w", incidentID, err)
	}
	return entries, nil
}
