// Package identity carries the acting user through a request and checks credentials
// against the directory.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ssm-mz/dispatch-api/databases"
	"github.com/ssm-mz/dispatch-api/models"
	"github.com/ssm-mz/dispatch-api/visibility"
)

// ErrInvalidCredentials is returned for an unknown identifier or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the acting user
func WithUser(ctx context.Context, u *models.AdminUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the acting user, or nil for an anonymous request
func FromContext(ctx context.Context) *models.AdminUser {
	u, _ := ctx.Value(ctxKey{}).(*models.AdminUser)
	return u
}

// Authenticate resolves an identifier (id, email or username) and checks the password
func Authenticate(ctx context.Context, users databases.UserDatabase, identifier, password string) (*models.AdminUser, error) {
	u, err := users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up %q: %w", identifier, err)
	}
	if u.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Session is what a successful login returns to the console
type Session struct {
	Token     string           `json:"token"`
	ID        string           `json:"_id"`
	User      models.AdminUser `json:"user"`
	Landing   string           `json:"landing"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// NewSession describes a freshly issued token for u
func NewSession(u *models.AdminUser, token string, ttl time.Duration, now time.Time) Session {
	return Session{
		Token:     token,
		ID:        u.ID,
		User:      *u,
		Landing:   visibility.Landing(u.Role),
		ExpiresAt: now.UTC().Add(ttl),
	}
}
