package triage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/models"
)

func TestProtocolShape(t *testing.T) {
	require.Len(t, Protocol, 5)
	assert.Empty(t, Protocol[0].Questions)
	assert.Len(t, Protocol[1].Questions, 9)
	assert.Len(t, Protocol[2].Questions, 9)
	assert.Len(t, Protocol[3].Questions, 7)
	assert.Len(t, Protocol[4].Questions, 4)
	assert.Equal(t, []models.Priority{"", models.PriorityCritical, models.PriorityHigh, models.PriorityModerate, models.PriorityLow},
		[]models.Priority{Protocol[0].Priority, Protocol[1].Priority, Protocol[2].Priority, Protocol[3].Priority, Protocol[4].Priority})
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		answers   Answers
		want      models.Priority
		wantStage int
		action    string
	}{
		{"critical discriminator", Answers{"q1_3": true}, models.PriorityCritical, 1, "EMERGÊNCIA - SAV/UCI"},
		{"high with all critical answered no", Answers{"q1_1": false, "q1_2": false, "q2_7": true}, models.PriorityHigh, 2, "MUITO URGENTE - SAV/UCI"},
		{"moderate", Answers{"q3_6": true}, models.PriorityModerate, 3, "URGENTE - Ambulância Básica"},
		{"low discriminator", Answers{"q4_2": true}, models.PriorityLow, 4, "POUCO URGENTE - Veículo não médico"},
		{"all no", Answers{"q1_1": false, "q4_4": false}, models.PriorityLow, 4, "NÃO URGENTE (AZUL)"},
		{"nothing answered", Answers{}, models.PriorityLow, 4, "NÃO URGENTE (AZUL)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Classification)
			assert.Equal(t, tt.wantStage, got.Stage)
			assert.Equal(t, tt.action, got.ActionRequired)
			assert.NotEmpty(t, got.Reasoning)
			assert.NotEmpty(t, got.SuggestedResources)
		})
	}
}

func TestEvaluate_NeverDowngradesAfterPositiveStage(t *testing.T) {
	// positives at several tiers: the most severe stage wins and evaluation stops there
	got, err := Evaluate(Answers{"q2_1": true, "q3_2": true, "q4_1": true})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, got.Classification)
	assert.Equal(t, []string{"Acionamento SAV", "Oxigénio", "Monitorização Contínua"}, got.SuggestedResources)
}

func TestEvaluate_AnyStageTwoYesIsHigh(t *testing.T) {
	for _, q := range Protocol[2].Questions {
		answers := Answers{q.ID: true}
		for _, c := range Protocol[1].Questions {
			answers[c.ID] = false
		}
		got, err := Evaluate(answers)
		require.NoError(t, err)
		assert.Equal(t, models.PriorityHigh, got.Classification, q.ID)
	}
}

func TestEvaluate_RejectsUnknownQuestions(t *testing.T) {
	_, err := Evaluate(Answers{"q9_9": true, "q1_1": false, "bogus": false})

	var uq *UnknownQuestionError
	require.ErrorAs(t, err, &uq)
	assert.Equal(t, []string{"bogus", "q9_9"}, uq.IDs)
}

func TestNewIncident(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.FixedZone("CAT", 2*3600))
	sub := models.TriageSubmission{
		Suggestion: models.ProtocolSuggestion{Classification: models.PriorityHigh, ActionRequired: "MUITO URGENTE - SAV/UCI"},
		Intake:     models.TriageIntake{PatientName: " Ana ", Location: "Av. Julius Nyerere"},
	}

	inc := NewIncident(sub, &models.AdminUser{ID: "CLI-006", CompanyID: "ABSA"}, now)

	assert.True(t, strings.HasPrefix(inc.ID, "SSM-MZ-"))
	assert.Equal(t, models.StatusActive, inc.Status)
	assert.Nil(t, inc.Assignment)
	assert.Equal(t, "ABSA", inc.CompanyID)
	assert.Equal(t, "Ana", inc.PatientName)
	assert.Equal(t, "EXTERNAL", inc.EmployeeID)
	assert.Equal(t, Maputo, inc.Coords)
	assert.Equal(t, time.UTC, inc.CreatedAt.Location())
	assert.True(t, inc.CreatedAt.Equal(now))

	operator := NewIncident(models.TriageSubmission{}, &models.AdminUser{ID: "OP-002"}, now)
	assert.Equal(t, "SSM", operator.CompanyID)
	assert.Equal(t, DefaultLocation, operator.LocationName)
	assert.NotEqual(t, inc.ID, operator.ID)
}
