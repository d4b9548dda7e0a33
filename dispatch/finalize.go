package dispatch

import (
	"context"
	"fmt"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/models"
)

// Finalize closes a mission at the hospital with its clinical report. It is the only way
// an incident reaches closed, and it releases the unit back to idle.
func (c *Coordinator) Finalize(ctx context.Context, actor *models.AdminUser, incidentID string, in models.ReportInput) (*models.EmergencyCase, error) {
	const op = "finalize"
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inc, err := c.load(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeField(actor, op, inc); err != nil {
		return nil, err
	}
	if inc.Closed() {
		return nil, c.reject(op, inc, models.ErrIncidentClosed)
	}
	if inc.Phase() != models.PhaseAtHospital {
		return nil, c.reject(op, inc, models.ErrInvalidPhaseTransition)
	}
	unit, err := c.unit(ctx, inc.Assignment.AmbulanceID)
	if err != nil {
		return nil, err
	}

	now := c.clock()
	inc.Assignment.Timestamps.Closed = now
	inc.Assignment.Phase = models.PhaseIdle
	inc.Report = &models.OperationReport{
		IncidentID:         inc.ID,
		AmbulanceID:        inc.Assignment.AmbulanceID,
		HospitalName:       in.HospitalName,
		ParamedicName:      actor.Name,
		ConsciousnessState: in.ConsciousnessState,
		VitalSigns:         in.VitalSigns,
		Procedures:         append([]string{}, in.Procedures...),
		Observations:       in.Observations,
		Timestamps:         inc.Assignment.Timestamps,
		SubmittedAt:        now,
	}
	inc.Status = models.StatusClosed
	inc.UpdatedAt = now
	if unit.IncidentID == inc.ID {
		unit.Phase = models.PhaseIdle
		unit.IncidentID = ""
	}
	if err := c.save(ctx, inc, unit); err != nil {
		return nil, err
	}

	c.Metrics.transitions.WithLabelValues(string(models.PhaseIdle)).Inc()
	c.Audit.Record(ctx, audit.Event{
		Actor:      models.ActorOf(actor),
		Action:     models.ActionMissionFinalizedReport,
		ResourceID: inc.ID,
	})
	c.Feed.Notify(EventClosed, *inc)
	return inc, nil
}
