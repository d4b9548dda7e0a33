package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
)

func newAuth(t *testing.T) (*Auth, *audit.Service) {
	t.Helper()
	seed, err := databases.LoadSeed("")
	require.NoError(t, err)
	trail := audit.NewService(databases.NewMemoryAuditDatabase(), 0)
	return NewAuth(databases.NewDirectory(seed), trail, time.Hour), trail
}

func TestValidateUser(t *testing.T) {
	a, _ := newAuth(t)
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	info, err := a.ValidateUser(context.Background(), req, "ELSA@SSM.CO.MZ", "123")
	require.NoError(t, err)
	assert.Equal(t, "RISK-003", info.ID())

	_, err = a.ValidateUser(context.Background(), req, "elsa.risk", "nope")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestMiddlewarePutsUserOnContext(t *testing.T) {
	a, trail := newAuth(t)
	var seen *models.AdminUser
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identity.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("paulo.fleet", "123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.NotNil(t, seen)
	assert.Equal(t, "FLEET-005", seen.ID)

	rr = httptest.NewRecorder()
	a.Middleware(http.HandlerFunc(a.CreateToken)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"landing":"fleet"`)

	entries, err := trail.All(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionLoginSuccess, entries[0].Action)
}

func TestRevokeTokenNeedsBearer(t *testing.T) {
	a, _ := newAuth(t)
	rr := httptest.NewRecorder()
	a.RevokeToken(rr, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTimeoutMiddleware(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	rr := httptest.NewRecorder()
	TimeoutMiddleware(20*time.Millisecond)(slow).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var deadline bool
	upgrade := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Upgrade", "websocket")
	TimeoutMiddleware(time.Second)(upgrade).ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, deadline)
}

func TestTimeoutMiddlewareDropsLateWrites(t *testing.T) {
	wrote := make(chan error, 1)
	late := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("X-Late", "yes")
		w.WriteHeader(http.StatusTeapot)
		_, err := w.Write([]byte(`{"late": true}`))
		wrote <- err
	})
	rr := httptest.NewRecorder()
	TimeoutMiddleware(20*time.Millisecond)(late).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	select {
	case err := <-wrote:
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(time.Second):
		t.Fatal("handler never finished")
	}
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Late"))
	assert.NotContains(t, rr.Body.String(), "late")
	assert.Contains(t, rr.Body.String(), "Request timeout")
}

func TestTimeoutMiddlewarePassesResponseThrough(t *testing.T) {
	fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok": true}`))
	})
	rr := httptest.NewRecorder()
	TimeoutMiddleware(time.Second)(fast).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok": true}`, rr.Body.String())
}
