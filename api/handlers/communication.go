package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ssm-mz/dispatch-api/comms"
	"github.com/ssm-mz/dispatch-api/dispatch"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
)

// Communication exported for testing purposes
type Communication struct {
	Dispatch *dispatch.Coordinator
	Ledger   *comms.Ledger
}

// CommunicationsHandler returns the ledger of an incident, optionally for one ?channel=
func (c Communication) CommunicationsHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]
	if _, err := c.Dispatch.Incident(r.Context(), identity.FromContext(r.Context()), incidentID); err != nil {
		fail(w, "failed to get incident", err)
		return
	}
	entries, err := c.Ledger.List(r.Context(), incidentID, models.Channel(r.URL.Query().Get("channel")))
	if err != nil {
		fail(w, "failed to get communications", err)
		return
	}
	if entries == nil {
		entries = []models.CommunicationLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateCommunicationHandler appends an entry to the ledger of an incident
func (c Communication) CreateCommunicationHandler(w http.ResponseWriter, r *http.Request) {
	actor := identity.FromContext(r.Context())
	incidentID := mux.Vars(r)["incident_id"]
	if _, err := c.Dispatch.Incident(r.Context(), actor, incidentID); err != nil {
		fail(w, "failed to get incident", err)
		return
	}
	var in models.CommunicationInput
	if err := decodeBody(r, &in); err != nil {
		fail(w, "failed to decode communication", err)
		return
	}
	entry, err := c.Ledger.Append(r.Context(), actor, incidentID, in)
	if err != nil {
		fail(w, "failed to log communication", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
