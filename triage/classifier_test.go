package triage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/models"
)

type stubClassifier struct {
	out string
	err error
}

func (s stubClassifier) Classify(context.Context, string) (string, error) {
	return s.out, s.err
}

func TestAnalyze(t *testing.T) {
	valid := `{"classification":"B","actionRequired":"MUITO URGENTE","reasoning":"dor torácica moderada","suggestedResources":["SAV"]}`
	tests := []struct {
		name       string
		classifier Classifier
		scenario   string
		want       models.Priority
		wantErr    error
	}{
		{"valid output", stubClassifier{out: valid}, "dor no peito", models.PriorityHigh, nil},
		{"fenced output", stubClassifier{out: "```json\n" + valid + "\n```"}, "dor no peito", models.PriorityHigh, nil},
		{"lower case tier", stubClassifier{out: `{"classification":"a","actionRequired":"x","reasoning":"y","suggestedResources":[]}`}, "x", models.PriorityCritical, nil},
		{"empty scenario", stubClassifier{out: valid}, "   ", "", ErrEmptyScenario},
		{"collaborator down", stubClassifier{err: errors.New("dial tcp: refused")}, "queda", "", models.ErrTriageAnalysisFailed},
		{"empty body", stubClassifier{out: ""}, "queda", "", models.ErrTriageAnalysisFailed},
		{"not json", stubClassifier{out: "Classificação: A"}, "queda", "", models.ErrTriageAnalysisFailed},
		{"tier out of enum", stubClassifier{out: `{"classification":"E","actionRequired":"x","reasoning":"y","suggestedResources":[]}`}, "queda", "", models.ErrTriageAnalysisFailed},
		{"missing field", stubClassifier{out: `{"classification":"C","reasoning":"y","suggestedResources":[]}`}, "queda", "", models.ErrTriageAnalysisFailed},
		{"no classifier", nil, "queda", "", models.ErrTriageAnalysisFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Analyze(context.Background(), tt.classifier, tt.scenario)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Classification)
		})
	}
}

func TestAnalyze_FailureKeepsScenario(t *testing.T) {
	_, err := Analyze(context.Background(), stubClassifier{err: errors.New("timeout")}, "homem caiu do andaime")

	var te *models.TriageError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "homem caiu do andaime", te.Scenario)
}

func TestOpenAIClassifier_Classify(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": `{"classification":"A","actionRequired":"EMERGÊNCIA","reasoning":"inconsciente","suggestedResources":["SAV"]}`}, "finish_reason": "stop"}},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClassifier("test-key", srv.URL+"/v1", "triage-model")
	got, err := Analyze(context.Background(), c, "pessoa inconsciente")

	require.NoError(t, err)
	assert.Equal(t, "triage-model", gotModel)
	assert.Equal(t, models.PriorityCritical, got.Classification)
	assert.Equal(t, []string{"SAV"}, got.SuggestedResources)
}

func TestOpenAIClassifier_ServerErrorIsAnalysisFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClassifier("test-key", srv.URL+"/v1", "triage-model")
	_, err := Analyze(context.Background(), c, "pessoa inconsciente")

	assert.ErrorIs(t, err, models.ErrTriageAnalysisFailed)
}
