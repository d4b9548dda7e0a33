package dispatch

import (
	"sync"
	"time"
)

// countdowns keeps at most one live acceptance timer per incident. A timer either fires
// or is cancelled, never both.
type countdowns struct {
	mu     sync.Mutex
	timers map[string]*countdown
}

type countdown struct {
	timer *time.Timer
}

func newCountdowns() *countdowns {
	return &countdowns{timers: map[string]*countdown{}}
}

// arm schedules fire after d. It returns false, and schedules nothing, when a countdown
// is already pending for the incident.
func (c *countdowns) arm(incidentID string, d time.Duration, fire func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.timers[incidentID]; ok {
		return false
	}
	cd := &countdown{}
	cd.timer = time.AfterFunc(d, func() {
		if c.take(incidentID, cd) {
			fire()
		}
	})
	c.timers[incidentID] = cd
	return true
}

// cancel stops the pending countdown of an incident and reports whether one was pending
func (c *countdowns) cancel(incidentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	cd, ok := c.timers[incidentID]
	if !ok {
		return false
	}
	cd.timer.Stop()
	delete(c.timers, incidentID)
	return true
}

// take claims the right to fire. Only the countdown still registered may claim it.
func (c *countdowns) take(incidentID string, cd *countdown) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timers[incidentID] != cd {
		return false
	}
	delete(c.timers, incidentID)
	return true
}

func (c *countdowns) pending(incidentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.timers[incidentID]
	return ok
}

func (c *countdowns) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *countdowns) stopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cd := range c.timers {
		cd.timer.Stop()
		delete(c.timers, id)
	}
}
