package config

import (
	"strings"
	"testing"
)

// validConfig returns a configuration that passes validation, for tests to
// break one field at a time.
func validConfig() *Config {
	cfg := &Config{}
	cfg.Snapshots.Store = "memory"
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Expected valid config to pass, got: %v", err)
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "LOUD"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected an error for an unknown log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected a oneof tag failure, got: %v", err)
	}
}

func TestValidate_LogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected an error for an unknown log format")
	}
}

func TestValidate_UnknownStore(t *testing.T) {
	cfg := validConfig()
	cfg.Snapshots.Store = "floppy"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected an error for an unknown store")
	}
}

func TestValidate_BadgerRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Snapshots.Store = "badger"
	cfg.Snapshots.Badger = map[string]any{}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected an error for a badger store without a path")
	}
	if !strings.Contains(err.Error(), "path is required") {
		t.Errorf("Expected a path error, got: %v", err)
	}

	// An in-memory badger store needs no path.
	cfg.Snapshots.Badger = map[string]any{"in_memory": true}
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected in-memory badger config to pass, got: %v", err)
	}
}

func TestValidate_S3RequiresBucketAndRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Snapshots.Store = "s3"
	cfg.Snapshots.S3 = map[string]any{"region": "eu-west-1"}

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "bucket is required") {
		t.Errorf("Expected a bucket error, got: %v", err)
	}

	cfg.Snapshots.S3 = map[string]any{"bucket": "snaps"}
	err = Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "region is required") {
		t.Errorf("Expected a region error, got: %v", err)
	}

	cfg.Snapshots.S3 = map[string]any{"bucket": "snaps", "region": "eu-west-1"}
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected complete S3 config to pass, got: %v", err)
	}
}

func TestValidate_BurstBelowRate(t *testing.T) {
	cfg := validConfig()
	cfg.Exporter.CaptureRate = 10
	cfg.Exporter.CaptureBurst = 2

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "capture_burst") {
		t.Errorf("Expected a capture_burst error, got: %v", err)
	}
}

func TestValidate_ShutdownTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Exporter.ShutdownTimeout = 0

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected an error for a zero shutdown timeout")
	}
}
