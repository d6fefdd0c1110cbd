package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_BACKEND", "DATABASE_PATH", "WORKER_COUNT", "MAX_TEXT_BYTES", "JOB_TTL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.StoreBackend)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.MaxTextBytes != 10485760 {
		t.Errorf("expected 10MB text limit, got %d", cfg.MaxTextBytes)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %s", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "PathStore")
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	cfg := Load()

	if cfg.StoreBackend != BackendPathstore {
		t.Errorf("expected pathstore backend, got %q", cfg.StoreBackend)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 5*time.Minute {
		t.Errorf("expected 5m job TTL, got %s", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback to be disabled")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{APIKey: "k", StoreBackend: BackendSQLite, DatabasePath: "x.db"}, false},
		{"missing api key", Config{StoreBackend: BackendSQLite, DatabasePath: "x.db"}, true},
		{"sqlite without path", Config{APIKey: "k", StoreBackend: BackendSQLite}, true},
		{"pathstore ok", Config{APIKey: "k", StoreBackend: BackendPathstore, PathstoreAPIKey: "p"}, false},
		{"pathstore without key", Config{APIKey: "k", StoreBackend: BackendPathstore}, true},
		{"unknown backend", Config{APIKey: "k", StoreBackend: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
