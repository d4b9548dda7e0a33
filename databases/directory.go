package databases

// go generate: mockery --name UserDatabase

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ssm-mz/dispatch-api/models"
)

//go:embed seed/directory.yaml
var defaultSeed []byte

// Seed is the on-disk shape of the directory file
type Seed struct {
	Users      []models.AdminUser `yaml:"users"`
	Companies  []models.Company   `yaml:"companies"`
	Employees  []models.Employee  `yaml:"employees"`
	Resources  []models.Resource  `yaml:"resources"`
	Ambulances []models.Ambulance `yaml:"ambulances"`
}

// UserDatabase is the read-only identity directory
type UserDatabase interface {
	FindOne(ctx context.Context, id string) (*models.AdminUser, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.AdminUser, error)
	Find(ctx context.Context) ([]models.AdminUser, error)
}

// Directory holds the reference collections: users, companies, employees and resources.
// It is loaded once at startup and only read afterwards.
type Directory struct {
	mu        sync.RWMutex
	users     []models.AdminUser
	companies []models.Company
	employees []models.Employee
	resources []models.Resource
}

type duplicateKeyError string

func (d duplicateKeyError) Error() string { return fmt.Sprintf("duplicate key %q", string(d)) }

func errDuplicateKey(id string) error { return duplicateKeyError(id) }

// LoadSeed parses the directory file at path, or the built-in seed when path is empty
func LoadSeed(path string) (*Seed, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = b
	}
	seed := &Seed{}
	if err := yaml.Unmarshal(raw, seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i := range seed.Users {
		u := &seed.Users[i]
		if !u.Role.Valid() {
			return nil, fmt.Errorf("user %s has unknown role %q", u.ID, u.Role)
		}
		if u.Password != "" && !strings.HasPrefix(u.Password, "$2") {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password for %s: %w", u.ID, err)
			}
			u.Password = string(hash)
		}
	}
	zap.S().Infow("directory seed loaded",
		"users", len(seed.Users),
		"companies", len(seed.Companies),
		"employees", len(seed.Employees),
		"resources", len(seed.Resources),
		"ambulances", len(seed.Ambulances))
	return seed, nil
}

// NewDirectory builds the directory from a parsed seed
func NewDirectory(seed *Seed) *Directory {
	return &Directory{
		users:     seed.Users,
		companies: seed.Companies,
		employees: seed.Employees,
		resources: seed.Resources,
	}
}

// FindOne looks a user up by id
func (d *Directory) FindOne(_ context.Context, id string) (*models.AdminUser, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

// FindByIdentifier resolves a login identifier: the id, or the email or username ignoring case
func (d *Directory) FindByIdentifier(_ context.Context, identifier string) (*models.AdminUser, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, models.ErrNotFound
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == identifier ||
			strings.EqualFold(u.Email, identifier) ||
			(u.Username != "" && strings.EqualFold(u.Username, identifier)) {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

// Find returns every user
func (d *Directory) Find(_ context.Context) ([]models.AdminUser, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.AdminUser(nil), d.users...), nil
}

// Companies returns every tenant
func (d *Directory) Companies() []models.Company {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Company(nil), d.companies...)
}

// Company looks a tenant up by id
func (d *Directory) Company(id string) (*models.Company, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.companies {
		if c.ID == id {
			return &c, true
		}
	}
	return nil, false
}

// Employees returns every covered employee
func (d *Directory) Employees() []models.Employee {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Employee(nil), d.employees...)
}

// Resources returns every network resource
func (d *Directory) Resources() []models.Resource {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Resource(nil), d.resources...)
}
