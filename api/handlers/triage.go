package handlers

import (
	"net/http"

	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/triage"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// Triage exported for testing purposes
type Triage struct {
	Classifier triage.Classifier
}

type structuredRequest struct {
	Answers triage.Answers `json:"answers"`
}

type analyzeRequest struct {
	Scenario string `json:"scenario"`
}

// ProtocolHandler returns the decision tree the console walks
func (t Triage) ProtocolHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, triage.Protocol)
}

// StructuredHandler evaluates the yes/no answers of the telephone protocol
func (t Triage) StructuredHandler(w http.ResponseWriter, r *http.Request) {
	if !visibility.Resolve(identity.FromContext(r.Context())).CanTriage() {
		fail(w, "triage not allowed", models.ErrVisibilityViolation)
		return
	}
	var req structuredRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, "failed to decode answers", err)
		return
	}
	s, err := triage.Evaluate(req.Answers)
	if err != nil {
		fail(w, "failed to evaluate answers", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// AnalyzeHandler classifies a free-text scenario with the external classifier
func (t Triage) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !visibility.Resolve(identity.FromContext(r.Context())).CanTriage() {
		fail(w, "triage not allowed", models.ErrVisibilityViolation)
		return
	}
	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, "failed to decode scenario", err)
		return
	}
	s, err := triage.Analyze(r.Context(), t.Classifier, req.Scenario)
	if err != nil {
		fail(w, "failed to analyze scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
