package databases

import (
	"context"
	"sort"
	"sync"

	"github.com/ssm-mz/dispatch-api/models"
)

// The in-memory stores back the service when no DB_URI is configured and in tests.
// Every read and write copies the record so callers never share state with the store.

type memoryIncidentDatabase struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.EmergencyCase
}

// NewMemoryIncidentDatabase returns an IncidentDatabase held in process memory
func NewMemoryIncidentDatabase() IncidentDatabase {
	return &memoryIncidentDatabase{byID: map[string]models.EmergencyCase{}}
}

func (m *memoryIncidentDatabase) FindOne(_ context.Context, id string) (*models.EmergencyCase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inc, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := inc.Clone()
	return &c, nil
}

// Find returns incidents newest first
func (m *memoryIncidentDatabase) Find(_ context.Context) ([]models.EmergencyCase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.EmergencyCase, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.byID[m.order[i]].Clone())
	}
	return out, nil
}

func (m *memoryIncidentDatabase) InsertOne(_ context.Context, incident *models.EmergencyCase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[incident.ID]; ok {
		return errDuplicateKey(incident.ID)
	}
	m.byID[incident.ID] = incident.Clone()
	m.order = append(m.order, incident.ID)
	return nil
}

func (m *memoryIncidentDatabase) ReplaceOne(_ context.Context, incident *models.EmergencyCase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[incident.ID]; !ok {
		return models.ErrNotFound
	}
	m.byID[incident.ID] = incident.Clone()
	return nil
}

type memoryAmbulanceDatabase struct {
	mu   sync.RWMutex
	byID map[string]models.Ambulance
}

// NewMemoryAmbulanceDatabase returns an AmbulanceDatabase held in process memory
func NewMemoryAmbulanceDatabase(seed ...models.Ambulance) AmbulanceDatabase {
	m := &memoryAmbulanceDatabase{byID: map[string]models.Ambulance{}}
	for _, a := range seed {
		if a.Phase == "" {
			a.Phase = models.PhaseIdle
		}
		m.byID[a.ID] = a
	}
	return m
}

func (m *memoryAmbulanceDatabase) FindOne(_ context.Context, id string) (*models.Ambulance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

// Find returns the roster ordered by unit id
func (m *memoryAmbulanceDatabase) Find(_ context.Context) ([]models.Ambulance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Ambulance, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryAmbulanceDatabase) InsertOne(_ context.Context, ambulance *models.Ambulance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ambulance.ID]; ok {
		return errDuplicateKey(ambulance.ID)
	}
	m.byID[ambulance.ID] = *ambulance
	return nil
}

func (m *memoryAmbulanceDatabase) ReplaceOne(_ context.Context, ambulance *models.Ambulance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[ambulance.ID]; !ok {
		return models.ErrNotFound
	}
	m.byID[ambulance.ID] = *ambulance
	return nil
}

type memoryAuditDatabase struct {
	mu      sync.RWMutex
	entries []models.AuditLog
}

// NewMemoryAuditDatabase returns an AuditDatabase held in process memory
func NewMemoryAuditDatabase() AuditDatabase {
	return &memoryAuditDatabase{}
}

func (m *memoryAuditDatabase) InsertOne(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

// Find returns matching entries newest first
func (m *memoryAuditDatabase) Find(_ context.Context, filter AuditFilter) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.AuditLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
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

func (m *memoryAuditDatabase) Trim(_ context.Context, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) <= keep {
		return 0, nil
	}
	dropped := len(m.entries) - keep
	m.entries = append([]models.AuditLog(nil), m.entries[dropped:]...)
	return int64(dropped), nil
}

type memoryCommunicationDatabase struct {
	mu      sync.RWMutex
	entries []models.CommunicationLog
}

// NewMemoryCommunicationDatabase returns a CommunicationDatabase held in process memory
func NewMemoryCommunicationDatabase() CommunicationDatabase {
	return &memoryCommunicationDatabase{}
}

func (m *memoryCommunicationDatabase) InsertOne(_ context.Context, entry *models.CommunicationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryCommunicationDatabase) Find(_ context.Context, incidentID string, channel models.Channel) ([]models.CommunicationLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.CommunicationLog
	for _, e := range m.entries {
		if e.IncidentID != incidentID {
			continue
		}
		if channel != "" && e.Channel != channel {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
