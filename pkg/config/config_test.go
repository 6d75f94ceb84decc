package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write minimal config
	configContent := `
logging:
  level: "INFO"

snapshots:
  store: "memory"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Load config
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default output 'stderr', got %q", cfg.Logging.Output)
	}
	if cfg.Capture.Source != "/proc/self/mountinfo" {
		t.Errorf("Expected default capture source '/proc/self/mountinfo', got %q", cfg.Capture.Source)
	}
	if cfg.Exporter.Listen != ":9312" {
		t.Errorf("Expected default exporter listen ':9312', got %q", cfg.Exporter.Listen)
	}
	if cfg.Exporter.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown_timeout 10s, got %v", cfg.Exporter.ShutdownTimeout)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Use a temporary directory with a non-existent config file path
	// This ensures we don't load the user's config from ~/.config/mountscope/
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}

	// Verify defaults
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Snapshots.Store != "badger" {
		t.Errorf("Expected default store 'badger', got %q", cfg.Snapshots.Store)
	}
	if path, _ := cfg.Snapshots.Badger["path"].(string); path == "" {
		t.Error("Expected a default badger path, got none")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(configPath, []byte("logging: [not: closed"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected an error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

snapshots:
  store: "memory"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Environment overrides the file value
	t.Setenv("MOUNTSCOPE_LOGGING_LEVEL", "debug")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Level is normalized to uppercase after the override
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected env-overridden level 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
snapshots:
  store: "cassette-tape"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected a validation error for an unknown store, got nil")
	}
}
