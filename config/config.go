package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ssm-mz/dispatch-api/models"
)

// Config holds the project config values
type Config struct {
	URL              string
	DatabaseName     string
	BaseURL          string
	Port             string
	Environment      string
	SeedFile         string
	AcceptTimeout    time.Duration
	SweepSpec        string
	RequestTimeout   time.Duration
	AuditCapacity    int
	OpenAIKey        string
	OpenAIBaseURL    string
	TriageModel      string
	SessionTTL       time.Duration
	FeedPingInterval time.Duration
}

// New sets up all config related services
func New() *Config {
	// a missing .env file is normal outside local development
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "production")
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:              os.Getenv("DB_URI"),
		DatabaseName:     getEnv("DB_NAME", "ssm"),
		BaseURL:          os.Getenv("BASE_URL"),
		Port:             getEnv("PORT", "8080"),
		Environment:      env,
		SeedFile:         os.Getenv("SEED_FILE"),
		AcceptTimeout:    getDuration("ACCEPT_TIMEOUT", 30*time.Second),
		SweepSpec:        getEnv("SWEEP_SPEC", "@every 5s"),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 15*time.Second),
		AuditCapacity:    getInt("AUDIT_CAPACITY", 500),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		TriageModel:      getEnv("TRIAGE_MODEL", "gpt-4o-mini"),
		SessionTTL:       getDuration("SESSION_TTL", 12*time.Hour),
		FeedPingInterval: getDuration("FEED_PING_INTERVAL", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		zap.S().Warnw("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		zap.S().Warnw("invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: errText}})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}

// StatusFor maps a domain error onto the HTTP status a handler should answer with
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrVisibilityViolation):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidPhaseTransition),
		errors.Is(err, models.ErrAmbulanceUnavailable),
		errors.Is(err, models.ErrIncidentClosed):
		return http.StatusConflict
	case errors.Is(err, models.ErrTriageAnalysisFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
