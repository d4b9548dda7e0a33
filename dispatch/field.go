package dispatch

import (
	"context"
	"fmt"

	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// NearestUnits ranks the assignable units the actor may see by distance to the incident
func (c *Coordinator) NearestUnits(ctx context.Context, actor *models.AdminUser, incidentID string) ([]models.RankedUnit, error) {
	inc, err := c.Incident(ctx, actor, incidentID)
	if err != nil {
		return nil, err
	}
	units, err := c.AmbulancesFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	free := units[:0]
	for _, u := range units {
		if u.Assignable() {
			free = append(free, u)
		}
	}
	return RankUnits(free, inc.Coords), nil
}

// NearestHospitals ranks the hospitals the actor may see by distance to the incident
func (c *Coordinator) NearestHospitals(ctx context.Context, actor *models.AdminUser, incidentID string) ([]models.RankedResource, error) {
	inc, err := c.Incident(ctx, actor, incidentID)
	if err != nil {
		return nil, err
	}
	if c.Directory == nil {
		return nil, nil
	}
	return RankHospitals(visibility.Resolve(actor).Resources(c.Directory.Resources()), inc.Coords), nil
}

// Mission is what a field terminal shows: its unit and the incident it is working, if any
type Mission struct {
	Unit     models.Ambulance      `json:"unit"`
	Incident *models.EmergencyCase `json:"incident"`
}

// FieldMission returns the current mission of a unit. An empty unitID means the unit the
// actor is bound to.
func (c *Coordinator) FieldMission(ctx context.Context, actor *models.AdminUser, unitID string) (*Mission, error) {
	if actor == nil {
		return nil, violation("field", unitID)
	}
	if unitID == "" {
		unitID = actor.UnitID
	}
	if unitID == "" {
		return nil, fmt.Errorf("no unit bound to %s: %w", actor.ID, models.ErrNotFound)
	}
	scope := visibility.Resolve(actor)
	if !scope.CanOperateField() {
		return nil, violation("field", unitID)
	}
	if actor.Role == models.RoleAmbulanceDriver && actor.UnitID != "" && actor.UnitID != unitID {
		return nil, violation("field", unitID)
	}
	unit, err := c.unit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if !scope.CanSeeAmbulance(unit) {
		return nil, violation("field", unitID)
	}
	m := &Mission{Unit: *unit}
	if unit.IncidentID == "" {
		return m, nil
	}
	inc, err := c.load(ctx, unit.IncidentID)
	if err != nil {
		return nil, err
	}
	if !inc.Closed() {
		m.Incident = inc
	}
	return m, nil
}
