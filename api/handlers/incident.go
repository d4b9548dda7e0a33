package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ssm-mz/dispatch-api/dispatch"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
)

// Incident exported for testing purposes
type Incident struct {
	Dispatch *dispatch.Coordinator
}

type dispatchRequest struct {
	AmbulanceID string `json:"ambulanceId"`
}

// IncidentsHandler returns the incidents visible to the caller, newest first
func (i Incident) IncidentsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := i.Dispatch.IncidentsFor(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		fail(w, "failed to get incidents", err)
		return
	}
	if list == nil {
		list = []models.EmergencyCase{}
	}
	writeJSON(w, http.StatusOK, list)
}

// IncidentByIDHandler returns a single incident
func (i Incident) IncidentByIDHandler(w http.ResponseWriter, r *http.Request) {
	inc, err := i.Dispatch.Incident(r.Context(), identity.FromContext(r.Context()), mux.Vars(r)["incident_id"])
	if err != nil {
		fail(w, "failed to get incident by ID", err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

// CreateIncidentHandler opens an incident from a triage result
func (i Incident) CreateIncidentHandler(w http.ResponseWriter, r *http.Request) {
	var sub models.TriageSubmission
	if err := decodeBody(r, &sub); err != nil {
		fail(w, "failed to decode request", err)
		return
	}
	inc, err := i.Dispatch.Open(r.Context(), identity.FromContext(r.Context()), sub)
	if err != nil {
		fail(w, "failed to open incident", err)
		return
	}
	writeJSON(w, http.StatusCreated, inc)
}

// SOSHandler raises a corporate panic alert for the caller's company
func (i Incident) SOSHandler(w http.ResponseWriter, r *http.Request) {
	inc, err := i.Dispatch.TriggerSOS(r.Context(), identity.FromContext(r.Context()))
	if err != nil {
		fail(w, "failed to trigger sos", err)
		return
	}
	writeJSON(w, http.StatusCreated, inc)
}

// NearestUnitsHandler ranks the free units by distance to the incident
func (i Incident) NearestUnitsHandler(w http.ResponseWriter, r *http.Request) {
	ranked, err := i.Dispatch.NearestUnits(r.Context(), identity.FromContext(r.Context()), mux.Vars(r)["incident_id"])
	if err != nil {
		fail(w, "failed to rank units", err)
		return
	}
	if ranked == nil {
		ranked = []models.RankedUnit{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

// NearestHospitalsHandler ranks the hospitals by distance to the incident
func (i Incident) NearestHospitalsHandler(w http.ResponseWriter, r *http.Request) {
	ranked, err := i.Dispatch.NearestHospitals(r.Context(), identity.FromContext(r.Context()), mux.Vars(r)["incident_id"])
	if err != nil {
		fail(w, "failed to rank hospitals", err)
		return
	}
	if ranked == nil {
		ranked = []models.RankedResource{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

// DispatchHandler sends a unit to the incident
func (i Incident) DispatchHandler(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := decodeBody(r, &req); err != nil {
		fail(w, "failed to decode request", err)
		return
	}
	if req.AmbulanceID == "" {
		fail(w, "ambulanceId is required", models.ErrValidation)
		return
	}
	inc, err := i.Dispatch.Assign(r.Context(), identity.FromContext(r.Context()), mux.Vars(r)["incident_id"], req.AmbulanceID)
	if err != nil {
		fail(w, "failed to dispatch ambulance", err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

type transitionFunc func(ctx context.Context, actor *models.AdminUser, incidentID string) (*models.EmergencyCase, error)

func (i Incident) transition(w http.ResponseWriter, r *http.Request, message string, fn transitionFunc) {
	inc, err := fn(r.Context(), identity.FromContext(r.Context()), mux.Vars(r)["incident_id"])
	if err != nil {
		fail(w, message, err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

// AcceptHandler confirms the dispatch from the field
func (i Incident) AcceptHandler(w http.ResponseWriter, r *http.Request) {
	i.transition(w, r, "failed to accept mission", i.Dispatch.Accept)
}

// ArriveHandler marks arrival at the patient
func (i Incident) ArriveHandler(w http.ResponseWriter, r *http.Request) {
	i.transition(w, r, "failed to register arrival", i.Dispatch.ArriveAtPatient)
}

// EvacuateHandler marks departure to hospital
func (i Incident) EvacuateHandler(w http.ResponseWriter, r *http.Request) {
	i.transition(w, r, "failed to start evacuation", i.Dispatch.StartEvacuation)
}

// HospitalHandler marks arrival at hospital
func (i Incident) HospitalHandler(w http.ResponseWriter, r *http.Request) {
	i.transition(w, r, "failed to register hospital arrival", i.Dispatch.ArriveAtHospital)
}

// FinalizeHandler closes the mission with the clinical report
func (i Incident) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	var in models.ReportInput
	if err := decodeBody(r, &in); err != nil {
		fail(w, "failed to decode report", err)
		return
	}
	inc, err := i.Dispatch.Finalize(r.Context(), identity.FromContext(r.Context()), mux.Vars(r)["incident_id"], in)
	if err != nil {
		fail(w, "failed to finalize mission", err)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

// FieldMissionHandler returns the current mission of the caller's unit, or of ?unit=
func (i Incident) FieldMissionHandler(w http.ResponseWriter, r *http.Request) {
	m, err := i.Dispatch.FieldMission(r.Context(), identity.FromContext(r.Context()), r.URL.Query().Get("unit"))
	if err != nil {
		fail(w, "failed to get field mission", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
