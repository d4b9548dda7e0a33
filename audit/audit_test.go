package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/databases/mocks"
	"github.com/ssm-mz/dispatch-api/models"
)

var operator = models.Actor{ID: "OP-002", Name: "Ricardo Tembe", Role: models.RoleOperatorCoord}
var clientAdmin = models.Actor{ID: "CLI-006", Name: "Gestor Absa", Role: models.RoleClientAdmin, CompanyID: "ABSA"}

func TestService_RecordDerivesSeverityAndDetails(t *testing.T) {
	s := NewService(databases.NewMemoryAuditDatabase(), 0)

	s.Record(context.Background(), Event{Actor: operator, Action: models.ActionDispatchAmbulance, ResourceID: "SSM-MZ-001"})

	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	e := all[0]
	assert.Equal(t, models.SeverityCritical, e.Severity)
	assert.Equal(t, "Despacho de unidade móvel para o incidente SSM-MZ-001", e.Details)
	assert.Equal(t, "OP-002", e.UserID)
	assert.Regexp(t, `^SSM-[0-9A-F]{16}$`, e.IntegrityHash)
	assert.True(t, Verify(e))
}

func TestService_RecordHonoursSeverityOverride(t *testing.T) {
	s := NewService(databases.NewMemoryAuditDatabase(), 0)

	s.Record(context.Background(), Event{
		Actor:    operator,
		Action:   models.ActionCommunicationLogged,
		Details:  "Comunicação Crítica Registada: paciente em paragem",
		Severity: models.SeverityCritical,
	})

	all, _ := s.All(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, models.SeverityCritical, all[0].Severity)
	assert.Equal(t, "Comunicação Crítica Registada: paciente em paragem", all[0].Details)
}

func TestVerifyDetectsTampering(t *testing.T) {
	s := NewService(databases.NewMemoryAuditDatabase(), 0)
	s.Record(context.Background(), Event{Actor: operator, Action: models.ActionLoginSuccess})
	all, _ := s.All(context.Background())
	e := all[0]

	e.Details = "something else"

	assert.False(t, Verify(e))
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		action models.AuditAction
		want   models.Severity
	}{
		{models.ActionCorporateSOSTriggered, models.SeverityCritical},
		{models.ActionDispatchAmbulance, models.SeverityCritical},
		{models.ActionMissionFinalized, models.SeverityWarning},
		{models.ActionMissionFinalizedReport, models.SeverityWarning},
		{models.ActionAmbulancePhaseChange, models.SeverityWarning},
		{models.ActionLoginSuccess, models.SeverityInfo},
		{models.ActionCommunicationLogged, models.SeverityInfo},
		{models.ActionDataExportExcel, models.SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityOf(tt.action))
		})
	}
}

func TestService_QueriesByUserAndCompany(t *testing.T) {
	s := NewService(databases.NewMemoryAuditDatabase(), 0)
	ctx := context.Background()
	s.Record(ctx, Event{Actor: operator, Action: models.ActionLoginSuccess})
	s.Record(ctx, Event{Actor: clientAdmin, Action: models.ActionLoginSuccess})
	s.Record(ctx, Event{Actor: clientAdmin, Action: models.ActionCorporateSOSTriggered, ResourceID: "SOS-1"})

	byUser, err := s.ByUser(ctx, "OP-002")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	byCompany, err := s.ByCompany(ctx, "ABSA")
	require.NoError(t, err)
	require.Len(t, byCompany, 2)
	assert.Equal(t, models.ActionCorporateSOSTriggered, byCompany[0].Action, "newest first")
}

func TestService_RetentionWindow(t *testing.T) {
	db := databases.NewMemoryAuditDatabase()
	s := NewService(db, 3)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	i := 0
	s.now = func() time.Time { i++; return base.Add(time.Duration(i) * time.Second) }
	ctx := context.Background()
	for n := 0; n < 5; n++ {
		s.Record(ctx, Event{Actor: operator, Action: models.ActionLoginSuccess, ResourceID: fmt.Sprint(n)})
	}

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "4", all[0].ResourceID)
	assert.Equal(t, "2", all[2].ResourceID)

	dropped, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dropped)
}

func TestService_RecordSwallowsStoreErrors(t *testing.T) {
	db := &mocks.AuditDatabase{}
	db.On("InsertOne", mock.Anything, mock.Anything).Return(errors.New("mocked-error"))
	s := NewService(db, 0)

	assert.NotPanics(t, func() {
		s.Record(context.Background(), Event{Actor: operator, Action: models.ActionLoginSuccess})
	})
	db.AssertExpectations(t)
}
