package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/audit"
	"github.com/ssm-mz/dispatch-api/config"
	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/identity"
	"github.com/ssm-mz/dispatch-api/models"
)

// Auth holds the user directory and the go-guardian token store
type Auth struct {
	Users databases.UserDatabase
	Audit audit.Recorder
	TTL   time.Duration

	authenticator auth.Authenticator
	cache         store.Cache
	now           func() time.Time
}

// NewAuth sets up basic and bearer strategies over the given directory
func NewAuth(users databases.UserDatabase, rec audit.Recorder, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	a := &Auth{Users: users, Audit: rec, TTL: ttl, now: time.Now}
	a.setupGoGuardian()
	return a
}

func (a *Auth) setupGoGuardian() {
	a.authenticator = auth.New()
	a.cache = store.NewFIFO(context.Background(), a.TTL)
	basicStrategy := basic.New(a.ValidateUser, a.cache)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, a.cache)

	a.authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateUser checks basic credentials against the directory
func (a *Auth) ValidateUser(ctx context.Context, r *http.Request, identifier, password string) (auth.Info, error) {
	u, err := identity.Authenticate(ctx, a.Users, identifier, password)
	if err != nil {
		return nil, err
	}
	return auth.NewDefaultUser(u.Username, u.ID, nil, nil), nil
}

// Middleware authenticates the request and puts the acting user on its context
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		info, err := a.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		u, err := a.Users.FindOne(r.Context(), info.ID())
		if err != nil {
			zap.S().Errorw("authenticated user is not in the directory",
				"user", info.ID(),
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", info.UserName())
		next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), u)))
	})
}

// CreateToken issues a bearer token to a user that passed basic auth
func (a *Auth) CreateToken(w http.ResponseWriter, r *http.Request) {
	u := identity.FromContext(r.Context())
	if u == nil {
		config.ErrorStatus("basic auth failed", http.StatusUnauthorized, w, identity.ErrInvalidCredentials)
		return
	}

	token := uuid.New().String()
	tokenStrategy := a.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Append(tokenStrategy, token, auth.NewDefaultUser(u.Username, u.ID, nil, nil), r); err != nil {
		config.ErrorStatus("failed to store token", http.StatusInternalServerError, w, err)
		return
	}

	a.Audit.Record(r.Context(), audit.Event{
		Actor:   models.ActorOf(u),
		Action:  models.ActionLoginSuccess,
		Details: fmt.Sprintf("Sessão iniciada por %s", u.Name),
		IP:      r.RemoteAddr,
	})

	b, err := json.Marshal(identity.NewSession(u, token, a.TTL, a.now()))
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Write(b)
}

// RevokeToken drops the bearer token the request was made with
func (a *Auth) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		config.ErrorStatus("bearer token required", http.StatusBadRequest, w, fmt.Errorf("%w: missing bearer token", models.ErrValidation))
		return
	}

	tokenStrategy := a.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(tokenStrategy, token, r); err != nil {
		config.ErrorStatus("failed to revoke token", http.StatusInternalServerError, w, err)
		return
	}

	a.Audit.Record(r.Context(), audit.Event{
		Actor:  models.ActorOf(identity.FromContext(r.Context())),
		Action: models.ActionLogoutManual,
		IP:     r.RemoteAddr,
	})
	w.Write([]byte(`{"revoked": true}`))
}
