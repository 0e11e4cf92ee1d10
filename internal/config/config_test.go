package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MAX_FILE_SIZE_BYTES", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StoreBackend != "memory" {
		t.Fatalf("expected default store backend memory, got %q", cfg.StoreBackend)
	}
	if cfg.MaxFileSizeBytes != 10<<20 {
		t.Fatalf("expected default size limit 10 MiB, got %d", cfg.MaxFileSizeBytes)
	}
	if cfg.NATSSubject != "documents.processed" {
		t.Fatalf("expected default subject documents.processed, got %q", cfg.NATSSubject)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("MAX_FILE_SIZE_BYTES", "1048576")
	t.Setenv("LLM_RATE_PER_SECOND", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StoreBackend != "postgres" {
		t.Fatalf("expected store backend override, got %q", cfg.StoreBackend)
	}
	if cfg.MaxFileSizeBytes != 1048576 {
		t.Fatalf("expected size limit 1048576, got %d", cfg.MaxFileSizeBytes)
	}
	if cfg.LLMRatePerSecond != 2 {
		t.Fatalf("expected rate 2, got %d", cfg.LLMRatePerSecond)
	}
}

func TestLoadFileOverlayThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api_port: \"9999\"\nstore_backend: postgres\nretention_hours: 24\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_PORT", "7070")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("RETENTION_HOURS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "7070" {
		t.Fatalf("env should win over file, got %q", cfg.APIPort)
	}
	if cfg.StoreBackend != "postgres" {
		t.Fatalf("file overlay not applied, got %q", cfg.StoreBackend)
	}
	if cfg.RetentionHours != 24 {
		t.Fatalf("file overlay retention not applied, got %d", cfg.RetentionHours)
	}
}

func TestLoadBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_port: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed config file")
	}
}
