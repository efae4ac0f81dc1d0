package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// SaveMode selects where "Go to Map" persists the itinerary.
type SaveMode string

const (
	SaveModeHTTP     SaveMode = "http"
	SaveModePostgres SaveMode = "postgres"
	SaveModeOff      SaveMode = "off"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type BackendConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type DirectionsConfig struct {
	GoogleAPIKey string
	// AverageSpeedKmh drives the haversine estimator when no API key is set.
	AverageSpeedKmh float64
	Mode            string
}

type PersistenceConfig struct {
	Mode       SaveMode
	Retries    int
	RetryDelay time.Duration
}

type Config struct {
	Repositories RepositoriesConfig
	Backend      BackendConfig
	Directions   DirectionsConfig
	Persistence  PersistenceConfig
	ServerPort   string
	MetricsAddr  string
	PprofAddr    string
	// OTLPEndpoint enables trace export when set, e.g. localhost:4318.
	OTLPEndpoint string
	PublicURL    string
	SessionTTL   time.Duration
	LogLevel     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "trip_planner"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: int32(getEnvInt("POSTGRES_MAX_CONNS", 10)),
				MinConns: int32(getEnvInt("POSTGRES_MIN_CONNS", 1)),
			},
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnvOrDefault("PLANNER_BACKEND_URL", "http://localhost:5000"), "/"),
			RequestTimeout: getEnvDuration("PLANNER_BACKEND_TIMEOUT", 15*time.Second),
		},
		Directions: DirectionsConfig{
			GoogleAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
			AverageSpeedKmh: getEnvFloat("PLANNER_AVERAGE_SPEED_KMH", 30),
			Mode:            getEnvOrDefault("PLANNER_TRAVEL_MODE", "driving"),
		},
		Persistence: PersistenceConfig{
			Mode:       SaveMode(strings.ToLower(getEnvOrDefault("PLANNER_SAVE_MODE", string(SaveModeHTTP)))),
			Retries:    getEnvInt("PLANNER_SAVE_RETRIES", 3),
			RetryDelay: getEnvDuration("PLANNER_SAVE_RETRY_DELAY", 500*time.Millisecond),
		},
		ServerPort:   getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
		PprofAddr:    os.Getenv("PPROF_ADDR"),
		OTLPEndpoint: os.Getenv("PLANNER_OTLP_ENDPOINT"),
		PublicURL:    strings.TrimRight(getEnvOrDefault("PLANNER_PUBLIC_URL", "http://localhost:8091"), "/"),
		SessionTTL:   getEnvDuration("PLANNER_SESSION_TTL", 30*time.Minute),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("PLANNER_BACKEND_URL is not a valid URL: %w", err)
	}
	switch c.Persistence.Mode {
	case SaveModeHTTP, SaveModeOff:
	case SaveModePostgres:
		if c.Repositories.Postgres.Password == "" {
			return fmt.Errorf("POSTGRES_PASSWORD environment variable is required when PLANNER_SAVE_MODE=postgres")
		}
	default:
		return fmt.Errorf("unsupported PLANNER_SAVE_MODE %q", c.Persistence.Mode)
	}
	if c.Persistence.Retries < 1 {
		c.Persistence.Retries = 1
	}
	if c.Directions.AverageSpeedKmh <= 0 {
		return fmt.Errorf("PLANNER_AVERAGE_SPEED_KMH must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
