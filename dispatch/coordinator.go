// Package dispatch pairs incidents with ambulances and drives the mission state machine
// from dispatch to the closing clinical report.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// DefaultAcceptTimeout is how long a unit has to accept a dispatch
const DefaultAcceptTimeout = 30 * time.Second

// Feed event kinds
const (
	EventOpened     = "incident.opened"
	EventDispatched = "incident.dispatched"
	EventPhase      = "incident.phase"
	EventTimeout    = "incident.acceptance_timeout"
	EventClosed     = "incident.closed"
)

// Notifier receives a copy of the incident after every state change
type Notifier interface {
	Notify(kind string, incident models.EmergencyCase)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, models.EmergencyCase) {}

// Coordinator owns every mutation of incidents and of the roster. The roster unit is the
// only record of a unit's phase; the incident's Assignment mirrors it and both are
// written under the same lock.
type Coordinator struct {
	Incidents  databases.IncidentDatabase
	Ambulances databases.AmbulanceDatabase
	Directory  *databases.Directory
	Audit      audit.Recorder
	Feed       Notifier
	Metrics    *Metrics
	Timeout    time.Duration

	mu         sync.Mutex
	countdowns *countdowns
	validate   *validator.Validate
	now        func() time.Time
}

// New creates a coordinator. A zero timeout means DefaultAcceptTimeout.
func New(incidents databases.IncidentDatabase, ambulances databases.AmbulanceDatabase, dir *databases.Directory, rec audit.Recorder, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultAcceptTimeout
	}
	return &Coordinator{
		Incidents:  incidents,
		Ambulances: ambulances,
		Directory:  dir,
		Audit:      rec,
		Feed:       nopNotifier{},
		Metrics:    NewMetrics(nil),
		Timeout:    timeout,
		countdowns: newCountdowns(),
		validate:   validator.New(),
		now:        time.Now,
	}
}

// Close stops every pending acceptance countdown
func (c *Coordinator) Close() {
	c.countdowns.stopAll()
	c.Metrics.pending.Set(0)
}

// clock is millisecond-truncated so stamps survive a round-trip through the store
func (c *Coordinator) clock() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

func (c *Coordinator) load(ctx context.Context, id string) (*models.EmergencyCase, error) {
	inc, err := c.Incidents.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("incident %s: %w", id, err)
	}
	return inc, nil
}

func (c *Coordinator) unit(ctx context.Context, id string) (*models.Ambulance, error) {
	a, err := c.Ambulances.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ambulance %s: %w", id, err)
	}
	return a, nil
}

// save writes the incident then the roster unit
func (c *Coordinator) save(ctx context.Context, inc *models.EmergencyCase, unit *models.Ambulance) error {
	if err := c.Incidents.ReplaceOne(ctx, inc); err != nil {
		return fmt.Errorf("failed to save incident %s: %w", inc.ID, err)
	}
	if unit == nil {
		return nil
	}
	if err := c.Ambulances.ReplaceOne(ctx, unit); err != nil {
		zap.S().Errorw("roster out of step with incident",
			"incident", inc.ID,
			"ambulance", unit.ID,
			"error", err)
		return fmt.Errorf("failed to save ambulance %s: %w", unit.ID, err)
	}
	return nil
}

// reject logs and counts a refused operation and returns it as a TransitionError
func (c *Coordinator) reject(op string, inc *models.EmergencyCase, err error) error {
	reason := "invalid_phase"
	switch err {
	case models.ErrIncidentClosed:
		reason = "closed"
	case models.ErrAmbulanceUnavailable:
		reason = "unavailable"
	}
	c.Metrics.rejected.WithLabelValues(op, reason).Inc()
	zap.S().Warnw("dispatch operation rejected",
		"operation", op,
		"incident", inc.ID,
		"phase", inc.Phase(),
		"status", inc.Status,
		"error", err)
	return &models.TransitionError{IncidentID: inc.ID, Operation: op, From: inc.Phase(), Err: err}
}

func violation(op, id string) error {
	return fmt.Errorf("%s %s: %w", op, id, models.ErrVisibilityViolation)
}

// authorizeField checks that the actor may drive the mission of inc. A driver bound to a
// unit may only drive that unit's mission.
func authorizeField(actor *models.AdminUser, op string, inc *models.EmergencyCase) error {
	scope := visibility.Resolve(actor)
	if !scope.CanOperateField() || !scope.CanSeeIncident(inc) {
		return violation(op, inc.ID)
	}
	if actor.Role == models.RoleAmbulanceDriver && actor.UnitID != "" &&
		inc.Assignment != nil && inc.Assignment.AmbulanceID != actor.UnitID {
		return violation(op, inc.ID)
	}
	return nil
}

// IncidentsFor returns the incidents the actor may see, newest first
func (c *Coordinator) IncidentsFor(ctx context.Context, actor *models.AdminUser) ([]models.EmergencyCase, error) {
	all, err := c.Incidents.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return visibility.Resolve(actor).Incidents(all), nil
}

// Incident returns one incident if the actor may see it
func (c *Coordinator) Incident(ctx context.Context, actor *models.AdminUser, id string) (*models.EmergencyCase, error) {
	inc, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibility.Resolve(actor).CanSeeIncident(inc) {
		return nil, violation("read", id)
	}
	return inc, nil
}

// AmbulancesFor returns the roster units the actor may see
func (c *Coordinator) AmbulancesFor(ctx context.Context, actor *models.AdminUser) ([]models.Ambulance, error) {
	all, err := c.Ambulances.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ambulances: %w", err)
	}
	return visibility.Resolve(actor).Ambulances(all), nil
}

// Assign sends a unit to an incident. The unit must be available and idle and the
// incident must have no unit attached. The acceptance countdown starts here.
func (c *Coordinator) Assign(ctx context.Context, actor *models.AdminUser, incidentID, ambulanceID string) (*models.EmergencyCase, error) {
	const op = "assign"
	c.mu.Lock()
	defer c.mu.Unlock()

	inc, err := c.load(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	unit, err := c.unit(ctx, ambulanceID)
	if err != nil {
		return nil, err
	}
	scope := visibility.Resolve(actor)
	if !scope.CanSeeIncident(inc) || !scope.CanDispatch(unit) {
		return nil, violation(op, incidentID)
	}
	if inc.Closed() {
		return nil, c.reject(op, inc, models.ErrIncidentClosed)
	}
	if inc.Assignment != nil {
		return nil, c.reject(op, inc, models.ErrInvalidPhaseTransition)
	}
	if !unit.Assignable() {
		c.Metrics.rejected.WithLabelValues(op, "unavailable").Inc()
		zap.S().Warnw("ambulance not assignable",
			"incident", inc.ID,
			"ambulance", unit.ID,
			"status", unit.Status,
			"phase", unit.Phase,
			"busyWith", unit.IncidentID)
		return nil, fmt.Errorf("ambulance %s is %s in phase %s: %w", unit.ID, unit.Status, unit.Phase, models.ErrAmbulanceUnavailable)
	}

	now := c.clock()
	km := DistanceKm(unit.Position, inc.Coords)
	inc.Assignment = &models.Assignment{
		AmbulanceID: unit.ID,
		CompanyID:   unit.CompanyID,
		Phase:       models.PhasePendingAccept,
		ETA:         ETA(km),
		DistanceKm:  km,
		AcceptBy:    now.Add(c.Timeout),
		Timestamps:  models.LifecycleTimestamps{Dispatched: now},
	}
	inc.UpdatedAt = now
	unit.Phase = models.PhasePendingAccept
	unit.IncidentID = inc.ID
	unit.Performance.Offered++
	refreshAcceptance(&unit.Performance)

	if err := c.save(ctx, inc, unit); err != nil {
		return nil, err
	}

	id := inc.ID
	if !c.countdowns.arm(id, c.Timeout, func() {
		if _, err := c.expire(context.Background(), id, now); err != nil {
			zap.S().Debugw("acceptance countdown found nothing to expire", "incident", id, "error", err)
		}
	}) {
		zap.S().Warnw("acceptance countdown already pending", "incident", id)
	}
	c.Metrics.pending.Set(float64(c.countdowns.len()))
	c.Metrics.transitions.WithLabelValues(string(models.PhasePendingAccept)).Inc()

	c.Audit.Record(ctx, audit.Event{
		Actor:      models.ActorOf(actor),
		Action:     models.ActionDispatchAmbulance,
		ResourceID: inc.ID,
		Details:    fmt.Sprintf("Despacho da unidade %s para o incidente %s (ETA %d min)", unit.ID, inc.ID, inc.Assignment.ETA),
	})
	c.Feed.Notify(EventDispatched, *inc)
	return inc, nil
}

// Accept is the field unit taking the mission. It must land before the countdown expires.
func (c *Coordinator) Accept(ctx context.Context, actor *models.AdminUser, incidentID string) (*models.EmergencyCase, error) {
	return c.advance(ctx, actor, incidentID, "accept", models.PhasePendingAccept, models.ActionMissionAcceptedField,
		func(inc *models.EmergencyCase, unit *models.Ambulance, now time.Time) error {
			if now.After(inc.Assignment.AcceptBy) {
				return models.ErrInvalidPhaseTransition
			}
			c.countdowns.cancel(inc.ID)
			c.Metrics.pending.Set(float64(c.countdowns.len()))
			inc.Assignment.Timestamps.Accepted = now
			if unit != nil {
				unit.Performance.Accepted++
				refreshAcceptance(&unit.Performance)
			}
			return nil
		})
}

// ArriveAtPatient moves the mission on scene and the incident into triage
func (c *Coordinator) ArriveAtPatient(ctx context.Context, actor *models.AdminUser, incidentID string) (*models.EmergencyCase, error) {
	return c.advance(ctx, actor, incidentID, "arrive", models.PhaseEnRouteToPatient, models.ActionAmbulancePhaseChange,
		func(inc *models.EmergencyCase, unit *models.Ambulance, now time.Time) error {
			inc.Status = models.StatusTriage
			inc.Assignment.Timestamps.ArrivedAtPatient = now
			minutes := now.Sub(inc.Assignment.Timestamps.Dispatched).Minutes()
			c.Metrics.response.Observe(minutes)
			if unit != nil {
				unit.Position = inc.Coords
				recordResponse(&unit.Performance, minutes)
			}
			return nil
		})
}

// StartEvacuation moves the patient into transport and the incident into transit
func (c *Coordinator) StartEvacuation(ctx context.Context, actor *models.AdminUser, incidentID string) (*models.EmergencyCase, error) {
	return c.advance(ctx, actor, incidentID, "evacuate", models.PhaseAtPatient, models.ActionAmbulancePhaseChange,
		func(inc *models.EmergencyCase, _ *models.Ambulance, now time.Time) error {
			inc.Status = models.StatusTransit
			inc.Assignment.Timestamps.LeftForHospital = now
			return nil
		})
}

// ArriveAtHospital ends transport. The mission now waits for its clinical report.
func (c *Coordinator) ArriveAtHospital(ctx context.Context, actor *models.AdminUser, incidentID string) (*models.EmergencyCase, error) {
	return c.advance(ctx, actor, incidentID, "hospital", models.PhaseEvacuating, models.ActionAmbulancePhaseChange,
		func(inc *models.EmergencyCase, _ *models.Ambulance, now time.Time) error {
			inc.Assignment.Timestamps.ArrivedAtHospital = now
			return nil
		})
}

// advance moves an assigned mission one step along its path from the given phase
func (c *Coordinator) advance(ctx context.Context, actor *models.AdminUser, incidentID, op string, from models.Phase,
	action models.AuditAction, apply func(*models.EmergencyCase, *models.Ambulance, time.Time) error) (*models.EmergencyCase, error) {
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
	if inc.Phase() != from {
		return nil, c.reject(op, inc, models.ErrInvalidPhaseTransition)
	}
	unit, err := c.unit(ctx, inc.Assignment.AmbulanceID)
	if err != nil {
		zap.S().Errorw("assigned unit missing from roster",
			"incident", inc.ID,
			"ambulance", inc.Assignment.AmbulanceID,
			"error", err)
		unit = nil
	}

	now := c.clock()
	if err := apply(inc, unit, now); err != nil {
		return nil, c.reject(op, inc, err)
	}
	to := from.Next()
	inc.Assignment.Phase = to
	inc.UpdatedAt = now
	if unit != nil {
		unit.Phase = to
	}
	if err := c.save(ctx, inc, unit); err != nil {
		return nil, err
	}

	c.Metrics.transitions.WithLabelValues(string(to)).Inc()
	ev := audit.Event{Actor: models.ActorOf(actor), Action: action, ResourceID: inc.ID}
	if action == models.ActionAmbulancePhaseChange {
		ev.Details = fmt.Sprintf("Unidade %s: %s → %s no incidente %s", inc.Assignment.AmbulanceID, from, to, inc.ID)
	}
	c.Audit.Record(ctx, ev)
	c.Feed.Notify(EventPhase, *inc)
	return inc, nil
}

// OnAcceptanceTimeout detaches a dispatch nobody accepted. The incident goes back to
// awaiting dispatch and the unit back to idle.
func (c *Coordinator) OnAcceptanceTimeout(ctx context.Context, incidentID string) (*models.EmergencyCase, error) {
	return c.expire(ctx, incidentID, time.Time{})
}

// expire detaches the pending dispatch of an incident. A non-zero dispatched time pins
// the dispatch the caller armed for, so a late countdown never detaches a newer one.
func (c *Coordinator) expire(ctx context.Context, incidentID string, dispatched time.Time) (*models.EmergencyCase, error) {
	const op = "acceptance_timeout"
	c.mu.Lock()
	defer c.mu.Unlock()

	inc, err := c.load(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if inc.Closed() {
		return nil, c.reject(op, inc, models.ErrIncidentClosed)
	}
	if inc.Phase() != models.PhasePendingAccept {
		return nil, c.reject(op, inc, models.ErrInvalidPhaseTransition)
	}
	if !dispatched.IsZero() && !inc.Assignment.Timestamps.Dispatched.Equal(dispatched) {
		return nil, c.reject(op, inc, models.ErrInvalidPhaseTransition)
	}

	unitID := inc.Assignment.AmbulanceID
	unit, err := c.unit(ctx, unitID)
	if err != nil {
		zap.S().Errorw("assigned unit missing from roster", "incident", inc.ID, "ambulance", unitID, "error", err)
		unit = nil
	}
	inc.Assignment = nil
	inc.UpdatedAt = c.clock()
	if unit != nil && unit.IncidentID == inc.ID {
		unit.Phase = models.PhaseIdle
		unit.IncidentID = ""
	}
	if err := c.save(ctx, inc, unit); err != nil {
		return nil, err
	}
	c.countdowns.cancel(inc.ID)
	c.Metrics.pending.Set(float64(c.countdowns.len()))
	c.Metrics.timeouts.Inc()

	zap.S().Warnw("dispatch not accepted in time",
		"incident", inc.ID,
		"ambulance", unitID,
		"timeout", c.Timeout)
	c.Audit.Record(ctx, audit.Event{
		Actor:      models.ActorOf(nil),
		Action:     models.ActionDispatchAcceptanceTimeout,
		ResourceID: inc.ID,
		Details:    fmt.Sprintf("Unidade %s não aceitou em %s. Incidente %s aguarda novo despacho", unitID, c.Timeout, inc.ID),
	})
	c.Feed.Notify(EventTimeout, *inc)
	return inc, nil
}

// SweepOverdue expires dispatches whose deadline passed without a live countdown, which
// happens when the process restarted while a dispatch was pending. It returns how many
// were expired.
func (c *Coordinator) SweepOverdue(ctx context.Context) (int, error) {
	all, err := c.Incidents.Find(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list incidents: %w", err)
	}
	now := c.clock()
	expired := 0
	for _, inc := range all {
		if inc.Closed() || inc.Phase() != models.PhasePendingAccept {
			continue
		}
		if now.Before(inc.Assignment.AcceptBy) || c.countdowns.pending(inc.ID) {
			continue
		}
		if _, err := c.expire(ctx, inc.ID, inc.Assignment.Timestamps.Dispatched); err != nil {
			continue
		}
		expired++
	}
	return expired, nil
}

func refreshAcceptance(p *models.Performance) {
	if p.Offered > 0 {
		p.AcceptanceRate = float64(p.Accepted) / float64(p.Offered)
	}
}

// recordResponse folds one dispatch-to-scene time into the running average
func recordResponse(p *models.Performance, minutes float64) {
	p.TotalIncidents++
	n := float64(p.TotalIncidents)
	p.AvgResponseTime += (minutes - p.AvgResponseTime) / n
}
