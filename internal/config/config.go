package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	DeletePolicyCascade  = "cascade"
	DeletePolicyRestrict = "restrict"

	defaultDSN         = "host=localhost user=postgres password=postgres dbname=budget port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	HTTPPort    string
	DataBackend string
	DatabaseDSN string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins string

	// CategoryDeletePolicy decides what happens to budgets and expenses
	// that still reference a category being deleted.
	CategoryDeletePolicy string
	// ReportLocation is the zone month/year are read in for expense dates.
	ReportLocation *time.Location

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DataBackend:          strings.ToLower(getEnv("DATA_BACKEND", BackendPostgres)),
		DatabaseDSN:          getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		CategoryDeletePolicy: strings.ToLower(getEnv("CATEGORY_DELETE_POLICY", DeletePolicyCascade)),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout:      getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	loc, err := time.LoadLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}
	cfg.ReportLocation = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DataBackend == BackendPostgres && cfg.DatabaseDSN == defaultDSN {
		slog.Warn("DATABASE_DSN is using the default value, set your own Postgres connection for production")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		slog.Warn("CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production")
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %q: must be a number between 1 and 65535", c.HTTPPort))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters")
	}

	switch c.DataBackend {
	case BackendPostgres, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid DATA_BACKEND %q: must be one of postgres, memory", c.DataBackend))
	}

	switch c.CategoryDeletePolicy {
	case DeletePolicyCascade, DeletePolicyRestrict:
	default:
		problems = append(problems, fmt.Sprintf("invalid CATEGORY_DELETE_POLICY %q: must be one of cascade, restrict", c.CategoryDeletePolicy))
	}

	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
