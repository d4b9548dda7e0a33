package dispatch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/triage"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// SOS incident texts
const (
	SOSType     = "Pânico Corporativo Ativado"
	SOSLocation = "Sede da Empresa (GPS)"
)

// Open stores the incident built from a triage result
func (c *Coordinator) Open(ctx context.Context, actor *models.AdminUser, sub models.TriageSubmission) (*models.EmergencyCase, error) {
	if !visibility.Resolve(actor).CanTriage() {
		return nil, violation("open", "incident")
	}
	if !sub.Suggestion.Classification.Valid() {
		return nil, fmt.Errorf("%w: classification %q is not one of A, B, C, D", models.ErrValidation, sub.Suggestion.Classification)
	}
	if strings.TrimSpace(sub.Suggestion.ActionRequired) == "" {
		return nil, fmt.Errorf("%w: actionRequired is required", models.ErrValidation)
	}
	if sub.Intake.Coords != nil {
		if err := c.validate.Struct(sub.Intake.Coords); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
	}
	inc := triage.NewIncident(sub, actor, c.clock())
	if err := c.insert(ctx, &inc); err != nil {
		return nil, err
	}
	c.Audit.Record(ctx, audit.Event{
		Actor:      models.ActorOf(actor),
		Action:     models.ActionProtocolTriageGenerated,
		ResourceID: inc.ID,
		Details:    fmt.Sprintf("Triagem %s (%s) submetida para operações", inc.Priority.Label(), inc.Type),
	})
	return &inc, nil
}

// TriggerSOS opens a CRITICAL incident at the headquarters of the actor's company
func (c *Coordinator) TriggerSOS(ctx context.Context, actor *models.AdminUser) (*models.EmergencyCase, error) {
	if !visibility.Resolve(actor).CanTriggerSOS() {
		return nil, violation("sos", "incident")
	}
	coords := triage.Maputo
	if c.Directory != nil {
		if company, ok := c.Directory.Company(actor.CompanyID); ok && company.Headquarters != (models.Coordinates{}) {
			coords = company.Headquarters
		}
	}
	now := c.clock()
	inc := models.EmergencyCase{
		ID:           triage.CaseID("SOS"),
		CreatedAt:    now,
		UpdatedAt:    now,
		Type:         SOSType,
		LocationName: SOSLocation,
		Coords:       coords,
		Priority:     models.PriorityCritical,
		Status:       models.StatusActive,
		CompanyID:    actor.CompanyID,
	}
	if err := c.insert(ctx, &inc); err != nil {
		return nil, err
	}
	zap.S().Warnw("corporate SOS triggered",
		"incident", inc.ID,
		"company", inc.CompanyID,
		"user", actor.ID)
	c.Audit.Record(ctx, audit.Event{
		Actor:      models.ActorOf(actor),
		Action:     models.ActionCorporateSOSTriggered,
		ResourceID: inc.ID,
	})
	return &inc, nil
}

func (c *Coordinator) insert(ctx context.Context, inc *models.EmergencyCase) error {
	if err := c.Incidents.InsertOne(ctx, inc); err != nil {
		return fmt.Errorf("failed to store incident %s: %w", inc.ID, err)
	}
	c.Metrics.opened.WithLabelValues(inc.Priority.Label()).Inc()
	c.Feed.Notify(EventOpened, *inc)
	return nil
}
