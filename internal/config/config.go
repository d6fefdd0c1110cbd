package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendSQLite    = "sqlite"
	BackendPathstore = "pathstore"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Storage
	StoreBackend    string
	DatabasePath    string
	PathstoreURL    string
	PathstoreAPIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Limits
	MaxUploadBytes int64
	MaxTextBytes   int64

	// Job state and parse statistics
	JobTTL      time.Duration
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MEVZUAT_API_KEY"),

		StoreBackend:    strings.ToLower(envOr("STORE_BACKEND", BackendSQLite)),
		DatabasePath:    envOr("DATABASE_PATH", "data/mevzuat.db"),
		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxTextBytes:   envInt64("MAX_TEXT_BYTES", 10485760),   // 10MB

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxTextBytes <= 0 {
		cfg.MaxTextBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MEVZUAT_API_KEY is required")
	}
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite backend")
		}
	case BackendPathstore:
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendPathstore, c.StoreBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envLevel accepts slog level names (debug, info, warn, error).
func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
