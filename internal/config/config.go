// Package config loads and validates application configuration from environment
// variables, optionally layered over a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/numberfinder/backend/internal/supabase"
)

// Driver selects the contacts table backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverSupabase Driver = "supabase"
)

// Config holds all configuration values for the service.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Driver picks the table backend. Defaults to postgres.
	Driver Driver

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string

	// SQLitePath is the database file for the sqlite driver. Defaults to "numberfinder.db".
	SQLitePath string

	// SupabaseURL is the project endpoint, e.g. https://xyz.supabase.co.
	// Required for the supabase driver; must be http or https.
	SupabaseURL string

	// SupabaseAnonKey is the public API key. Required for the supabase driver
	// unless TableKeySecretID is set.
	SupabaseAnonKey string

	// SupabaseTable is the REST resource holding contacts. Defaults to "contacts".
	SupabaseTable string

	// TableKeySecretID names an AWS Secrets Manager secret holding the anon key.
	TableKeySecretID string

	// AWSRegion is used when fetching TableKeySecretID. Defaults to "us-east-1".
	AWSRegion string

	// TableTimeout bounds each table call. Zero disables the bound.
	TableTimeout time.Duration

	// UploadTotal is the number of contacts an upload generates when the
	// caller does not say. Defaults to 20.
	UploadTotal int

	// UploadBatchSize is the number of contacts per insert. Defaults to 5.
	UploadBatchSize int

	// UploadBatchPause is the pause between inserts. Defaults to 300ms.
	UploadBatchPause time.Duration

	// UploadHold is how long a finished upload stays visible before the
	// counters reset. Defaults to 2s.
	UploadHold time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// When CONFIG_FILE names a YAML file, its keys (the variable names in lower
// case, e.g. table_driver) supply values for variables that are not set.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:             src.get("PORT", "8080"),
		LogLevel:         src.get("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(src.get("CORS_ORIGINS", "http://localhost:5173")),
		Driver:           Driver(strings.ToLower(src.get("TABLE_DRIVER", string(DriverPostgres)))),
		DatabaseURL:      src.get("DATABASE_URL", ""),
		SQLitePath:       src.get("SQLITE_PATH", "numberfinder.db"),
		SupabaseURL:      src.get("SUPABASE_URL", ""),
		SupabaseAnonKey:  src.get("SUPABASE_ANON_KEY", ""),
		SupabaseTable:    src.get("SUPABASE_TABLE", "contacts"),
		TableKeySecretID: src.get("TABLE_KEY_SECRET_ID", ""),
		AWSRegion:        src.get("AWS_REGION", "us-east-1"),
		TableTimeout:     src.getDuration("TABLE_TIMEOUT", 0),
		UploadTotal:      src.getInt("UPLOAD_TOTAL", 20),
		UploadBatchSize:  src.getInt("UPLOAD_BATCH_SIZE", 5),
		UploadBatchPause: src.getDuration("UPLOAD_BATCH_PAUSE", 300*time.Millisecond),
		UploadHold:       src.getDuration("UPLOAD_HOLD", 2*time.Second),
		MaxBodyBytes:     int64(src.getInt("MAX_BODY_BYTES", 1<<20)),
	}

	if len(src.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(src.invalid, "; "))
	}

	var missing []string
	switch cfg.Driver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	case DriverSupabase:
		if cfg.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if cfg.SupabaseAnonKey == "" && cfg.TableKeySecretID == "" {
			missing = append(missing, "SUPABASE_ANON_KEY (or TABLE_KEY_SECRET_ID)")
		}
	default:
		return Config{}, fmt.Errorf("TABLE_DRIVER %q is not one of postgres, sqlite, supabase", cfg.Driver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.Driver == DriverSupabase {
		if _, err := supabase.ValidateURL(cfg.SupabaseURL); err != nil {
			return Config{}, fmt.Errorf("SUPABASE_URL: %w", err)
		}
	}
	if cfg.UploadBatchSize <= 0 {
		return Config{}, fmt.Errorf("UPLOAD_BATCH_SIZE must be > 0")
	}
	if cfg.UploadTotal < 0 {
		return Config{}, fmt.Errorf("UPLOAD_TOTAL must be >= 0")
	}

	return cfg, nil
}

// source resolves a key from the environment first, then the YAML file.
type source struct {
	file    map[string]string
	invalid []string
}

func newSource(path string) (*source, error) {
	s := &source{file: map[string]string{}}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: reading CONFIG_FILE: %w", err)
	}
	if err := yaml.Unmarshal(b, &s.file); err != nil {
		return nil, fmt.Errorf("config.Load: parsing %s: %w", path, err)
	}
	return s, nil
}

func (s *source) get(key, fallback string) string {
	if v := getEnv(key, ""); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.file[strings.ToLower(key)]); v != "" {
		return v
	}
	return fallback
}

func (s *source) getInt(key string, fallback int) int {
	raw := s.get(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.invalid = append(s.invalid, fmt.Sprintf("%s=%q is not an integer", key, raw))
		return fallback
	}
	return n
}

func (s *source) getDuration(key string, fallback time.Duration) time.Duration {
	raw := s.get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		s.invalid = append(s.invalid, fmt.Sprintf("%s=%q is not a duration", key, raw))
		return fallback
	}
	return d
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
