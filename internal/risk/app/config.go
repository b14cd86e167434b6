package app

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/classifier"
	httpapi "github.com/aussiebroadwan/creditrisk/internal/risk/http"
)

type Config struct {
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	LogOutput            io.Writer     // Optional: log destination (default: stdout)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Audit purge interval (default: 1h)

	ModelBackend string        // Model format (xgboost, logistic, remote) (default: xgboost)
	ModelFile    string        // Model file for the xgboost and logistic backends (default: ./model.bin)
	ModelURL     string        // Model server base URL for the remote backend
	ModelTimeout time.Duration // Per call timeout of the remote backend (default: 5s)
	EncodersFile string        // Encoder tables (default: ./encoders.json)

	AuthRequired   bool          // Gate the form and API behind a login (default: true)
	UsersFile      string        // Credential file (default: ./users.json)
	Issuer         string        // Issuer claim of session tokens (default: creditrisk)
	SessionTTL     time.Duration // Session lifetime (default: 8h)
	SessionKeyFile string        // Optional: Ed25519 PEM key; sessions are lost on restart without it
	SecureCookie   bool          // Mark the session cookie Secure (default: false)

	AuditDatabaseFile string        // SQLite login audit database; empty disables auditing (default: ./creditrisk.db)
	AuditRetention    time.Duration // Age after which audit rows are purged (default: 90 days)

	UI httpapi.UIConfig
}

func LoadConfig() Config {
	ui := httpapi.DefaultUIConfig()

	cfg := Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		ModelBackend: strings.ToLower(getEnvOrDefault("RISK_MODEL_BACKEND", string(classifier.BackendXGBoost))),
		ModelFile:    getEnvOrDefault("RISK_MODEL_FILE", "model.bin"),
		ModelURL:     os.Getenv("RISK_MODEL_URL"),
		ModelTimeout: getEnvDurationOrDefault("RISK_MODEL_TIMEOUT", 5*time.Second),
		EncodersFile: getEnvOrDefault("RISK_ENCODERS_FILE", "encoders.json"),

		AuthRequired:   getEnvBoolOrDefault("RISK_AUTH_REQUIRED", true),
		UsersFile:      getEnvOrDefault("RISK_USERS_FILE", "users.json"),
		Issuer:         getEnvOrDefault("RISK_ISSUER", "creditrisk"),
		SessionTTL:     getEnvDurationOrDefault("RISK_SESSION_TTL", 8*time.Hour),
		SessionKeyFile: os.Getenv("RISK_SESSION_KEY_FILE"), // Optional
		SecureCookie:   getEnvBoolOrDefault("RISK_SECURE_COOKIE", false),

		AuditDatabaseFile: "creditrisk.db",
		AuditRetention:    getEnvDurationOrDefault("RISK_AUDIT_RETENTION", 90*24*time.Hour),

		UI: httpapi.UIConfig{
			Title:    getEnvOrDefault("UI_TITLE", ui.Title),
			Subtitle: getEnvOrDefault("UI_SUBTITLE", ui.Subtitle),
			Currency: getEnvOrDefault("UI_CURRENCY", ui.Currency),
			Emoji:    getEnvOrDefault("UI_EMOJI", ui.Emoji),
			Footer:   getEnvOrDefault("UI_FOOTER", ui.Footer),
		},
	}

	// An explicitly empty value turns auditing off
	if v, ok := os.LookupEnv("RISK_AUDIT_DATABASE_FILE"); ok {
		cfg.AuditDatabaseFile = v
	}

	return cfg
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch classifier.Backend(c.ModelBackend) {
	case classifier.BackendXGBoost, classifier.BackendLogistic:
		if c.ModelFile == "" {
			return fmt.Errorf("RISK_MODEL_FILE is required for the %s backend", c.ModelBackend)
		}
	case classifier.BackendRemote:
		if c.ModelURL == "" {
			return fmt.Errorf("RISK_MODEL_URL is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown RISK_MODEL_BACKEND %q", c.ModelBackend)
	}

	if c.EncodersFile == "" {
		return fmt.Errorf("RISK_ENCODERS_FILE is required")
	}
	if c.AuthRequired && c.UsersFile == "" {
		return fmt.Errorf("RISK_USERS_FILE is required when authentication is enabled")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
