package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/api/handlers"
	"github.com/ssm-mz/dispatch-api/config"
	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
)

func newApp(t *testing.T) *handlers.App {
	t.Helper()
	seed, err := databases.LoadSeed("")
	require.NoError(t, err)

	a := &handlers.App{
		Config: config.Config{
			AcceptTimeout:    time.Minute,
			AuditCapacity:    500,
			SessionTTL:       time.Hour,
			FeedPingInterval: time.Second,
			RequestTimeout:   5 * time.Second,
		},
		Seed: seed,
	}
	a.Wire(databases.NewMemoryIncidentDatabase(), databases.NewMemoryAmbulanceDatabase(seed.Ambulances...),
		databases.NewMemoryAuditDatabase(), databases.NewMemoryCommunicationDatabase())
	t.Cleanup(a.Dispatch.Close)
	return a
}

func login(t *testing.T, a *handlers.App, user string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
	req.SetBasicAuth(user, "123")
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var s identity.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	require.NotEmpty(t, s.Token)
	return s.Token
}

func call(t *testing.T, a *handlers.App, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func openIncident(t *testing.T, a *handlers.App, token, company string) models.EmergencyCase {
	t.Helper()
	rr := call(t, a, token, http.MethodPost, "/api/v1/incidents", models.TriageSubmission{
		Suggestion: models.ProtocolSuggestion{
			Classification: models.PriorityCritical,
			ActionRequired: "EMERGÊNCIA (VERMELHO)",
			Reasoning:      "Paragem respiratória",
		},
		Intake: models.TriageIntake{
			Company:     company,
			PatientName: "Carlos Mondlane",
			Location:    "Av. 25 de Setembro",
			Coords:      &models.Coordinates{Lat: -25.9692, Lng: 32.5732},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.EmergencyCase](t, rr)
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	rr := call(t, a, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)

	rr := call(t, a, "", http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", nil)
	req.SetBasicAuth("ricardo.tembe", "wrong")
	rr = httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token := login(t, a, "ricardo.tembe")
	rr = call(t, a, token, http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decode[handlers.Profile](t, rr)
	assert.Equal(t, "OP-002", me.User.ID)
	assert.True(t, me.Capabilities.Triage)
	assert.False(t, me.Capabilities.TriggerSOS)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = call(t, a, token, http.MethodDelete, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = call(t, a, token, http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	trail, err := a.Audit.ByUser(context.Background(), "OP-002")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, models.ActionLogoutManual, trail[0].Action)
	assert.Equal(t, models.ActionLoginSuccess, trail[1].Action)
}

func TestMissionOverHTTP(t *testing.T) {
	a := newApp(t)
	op := login(t, a, "ricardo.tembe")
	driver := login(t, a, "joao.amb")

	inc := openIncident(t, a, op, "ABSA")
	base := "/api/v1/incidents/" + inc.ID

	rr := call(t, a, op, http.MethodGet, base+"/nearest-units", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	ranked := decode[[]models.RankedUnit](t, rr)
	require.NotEmpty(t, ranked)

	rr = call(t, a, op, http.MethodPost, base+"/dispatch", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, a, op, http.MethodPost, base+"/dispatch", map[string]string{"ambulanceId": "ALPHA-1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	dispatched := decode[models.EmergencyCase](t, rr)
	assert.Equal(t, models.PhasePendingAccept, dispatched.Phase())

	rr = call(t, a, op, http.MethodPost, base+"/dispatch", map[string]string{"ambulanceId": "BETA-2"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = call(t, a, driver, http.MethodPost, base+"/arrive", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = call(t, a, driver, http.MethodGet, "/api/v1/field/mission", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), inc.ID)

	for _, step := range []string{"accept", "arrive", "evacuate", "hospital"} {
		rr = call(t, a, driver, http.MethodPost, base+"/"+step, nil)
		require.Equal(t, http.StatusOK, rr.Code, step+": "+rr.Body.String())
	}

	rr = call(t, a, driver, http.MethodPost, base+"/finalize", models.ReportInput{HospitalName: "Hospital Central Maputo"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, a, driver, http.MethodPost, base+"/finalize", models.ReportInput{
		HospitalName:       "Hospital Central Maputo",
		ConsciousnessState: models.Conscious,
		VitalSigns:         models.VitalSigns{BP: "120/80", HR: "88", SpO2: "97%"},
		Procedures:         []string{"Oxigenoterapia"},
		Observations:       "Estável",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	closed := decode[models.EmergencyCase](t, rr)
	assert.Equal(t, models.StatusClosed, closed.Status)
	require.NotNil(t, closed.Report)
	assert.Equal(t, "João Condestável", closed.Report.ParamedicName)

	rr = call(t, a, op, http.MethodGet, "/api/v1/ambulances", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, u := range decode[[]models.Ambulance](t, rr) {
		assert.True(t, u.Assignable(), u.ID)
	}
}

func TestVisibilityOverHTTP(t *testing.T) {
	a := newApp(t)
	op := login(t, a, "ricardo.tembe")
	absa := login(t, a, "gestor.absa")

	mine := openIncident(t, a, absa, "ABSA")
	other := openIncident(t, a, op, "NEDBANK")

	rr := call(t, a, absa, http.MethodGet, "/api/v1/incidents", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]models.EmergencyCase](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	rr = call(t, a, absa, http.MethodGet, "/api/v1/incidents/"+other.ID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = call(t, a, absa, http.MethodPost, "/api/v1/incidents/"+other.ID+"/communications",
		models.CommunicationInput{Channel: models.ChannelClient, Message: "olá"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = call(t, a, absa, http.MethodGet, "/api/v1/incidents/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = call(t, a, absa, http.MethodGet, "/api/v1/companies", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	companies := decode[[]models.Company](t, rr)
	require.Len(t, companies, 1)
	assert.Equal(t, "ABSA", companies[0].ID)

	rr = call(t, a, absa, http.MethodGet, "/api/v1/employees", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, e := range decode[[]models.Employee](t, rr) {
		assert.Equal(t, "ABSA", e.CompanyID)
	}

	rr = call(t, a, absa, http.MethodPost, "/api/v1/sos", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	sos := decode[models.EmergencyCase](t, rr)
	assert.Equal(t, models.PriorityCritical, sos.Priority)
	assert.True(t, strings.HasPrefix(sos.ID, "SOS-"))

	rr = call(t, a, op, http.MethodPost, "/api/v1/sos", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestTriageOverHTTP(t *testing.T) {
	a := newApp(t)
	op := login(t, a, "ricardo.tembe")
	driver := login(t, a, "joao.amb")

	rr := call(t, a, op, http.MethodGet, "/api/v1/triage/protocol", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rr), 5)

	rr = call(t, a, op, http.MethodPost, "/api/v1/triage/structured", map[string]interface{}{"answers": map[string]bool{}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.PriorityLow, decode[models.ProtocolSuggestion](t, rr).Classification)

	rr = call(t, a, op, http.MethodPost, "/api/v1/triage/structured", map[string]interface{}{"answers": map[string]bool{"nope": true}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, a, driver, http.MethodPost, "/api/v1/triage/structured", map[string]interface{}{"answers": map[string]bool{}})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = call(t, a, op, http.MethodPost, "/api/v1/triage/analyze", map[string]string{"scenario": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, a, op, http.MethodPost, "/api/v1/triage/analyze", map[string]string{"scenario": "Homem de 50 anos com dor no peito"})
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestCommunicationsOverHTTP(t *testing.T) {
	a := newApp(t)
	op := login(t, a, "ricardo.tembe")
	inc := openIncident(t, a, op, "ABSA")
	path := "/api/v1/incidents/" + inc.ID + "/communications"

	rr := call(t, a, op, http.MethodPost, path, models.CommunicationInput{Channel: models.ChannelAmbulance, Message: "ALPHA-1 a caminho", IsCritical: true})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = call(t, a, op, http.MethodPost, path, models.CommunicationInput{Channel: models.ChannelClient, Message: "Familiar informado"})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = call(t, a, op, http.MethodPost, path, models.CommunicationInput{Channel: "FAX", Message: "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, a, op, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.CommunicationLog](t, rr), 2)

	rr = call(t, a, op, http.MethodGet, path+"?channel=AMBULANCIA", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decode[[]models.CommunicationLog](t, rr)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsCritical)
}

func TestAuditOverHTTP(t *testing.T) {
	a := newApp(t)
	admin := login(t, a, "marina.sengo")
	absa := login(t, a, "gestor.absa")
	openIncident(t, a, absa, "ABSA")

	rr := call(t, a, absa, http.MethodGet, "/api/v1/audit", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, e := range decode[[]models.AuditLog](t, rr) {
		assert.Equal(t, "ABSA", e.CompanyID)
	}

	rr = call(t, a, admin, http.MethodGet, "/api/v1/audit/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "id,timestamp,userId"))
	assert.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), ",true"))

	trail, err := a.Audit.ByUser(context.Background(), "ADM-001")
	require.NoError(t, err)
	require.NotEmpty(t, trail)
	assert.Equal(t, models.ActionDataExportExcel, trail[0].Action)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newApp(t)
	call(t, a, "", http.MethodGet, "/api/v1/incidents", nil)

	rr := call(t, a, "", http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `ssm_http_requests_total{code="401",method="GET",route="/api/v1/incidents"} 1`)
}
