package app

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string // Issuer claim for tokens (default: roster)
	Audience       string // Audience claim for tokens (default: roster)
	BootstrapToken string // Optional: token required to perform bootstrap

	NumKeys        int    // Optional: number of ephemeral signing keys (default: 1, max: 10)
	SigningKeyFile string // Optional: PKCS8 Ed25519 key file; tokens survive restarts when set

	DatabaseFile string // Path to SQLite database file (default: ./roster.db)
	PepperFile   string // Path to file containing the pepper for code hashing (default: ./pepper)
	MediaDir     string // Directory uploaded images are stored in (default: ./media)
	MediaBaseURL string // Public URL prefix for stored images (default: /media)

	SMTP            SMTPConfig
	NotifyQueueSize int // Outgoing email buffer (default: 256)

	Env                  string        // Environment (dev, staging, prod, test) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingEnabled  bool          // Run the background sweeper (default: true)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	PendingTTL           time.Duration // Age at which pending applications expire (default: 48h)
}

// SMTPConfig is empty unless SMTP_HOST is set, in which case email is sent
// through the relay instead of being logged.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// IsTest reports whether the debug outbox should be exposed.
func (c Config) IsTest() bool { return strings.EqualFold(c.Env, "test") }

func LoadConfig() Config {
	// A missing .env is the normal case in containers
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := Config{
		Issuer:         getEnvOrDefault("ROSTER_ISSUER", "roster"),
		Audience:       getEnvOrDefault("ROSTER_AUDIENCE", "roster"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"), // Optional: if set, required to perform bootstrap
		NumKeys:        getEnvIntOrDefault("ROSTER_NUM_KEYS", 0),
		SigningKeyFile: os.Getenv("ROSTER_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("ROSTER_DATABASE_FILE", "roster.db"),
		PepperFile:     getEnvOrDefault("ROSTER_PEPPER_FILE", "pepper"),
		MediaDir:       getEnvOrDefault("ROSTER_MEDIA_DIR", "media"),
		MediaBaseURL:   getEnvOrDefault("ROSTER_MEDIA_BASE_URL", "/media"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		NotifyQueueSize:      getEnvIntOrDefault("NOTIFY_QUEUE_SIZE", 256),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingEnabled:  getEnvBoolOrDefault("HOUSEKEEPING_ENABLED", true),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		PendingTTL:           getEnvDurationOrDefault("PENDING_TTL", 48*time.Hour),
	}

	return cfg
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

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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
