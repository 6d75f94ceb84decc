package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInitConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected a config.yaml path, got %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read generated config: %v", err)
	}
	if !strings.Contains(string(data), "snapshots:") {
		t.Error("Expected generated config to contain a snapshots section")
	}
}

func TestInitConfig_RefusesOverwrite(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}
	if _, err := InitConfig(false); err == nil {
		t.Fatal("Expected an error when the config file already exists")
	}
	if _, err := InitConfig(true); err != nil {
		t.Errorf("Expected --force to overwrite, got: %v", err)
	}
}

// TestStarterConfig_IsValidYAML parses the embedded starter text so a stray
// edit cannot ship a config file the tool itself refuses to read.
func TestStarterConfig_IsValidYAML(t *testing.T) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(starterConfig), &doc); err != nil {
		t.Fatalf("Starter config is not valid YAML: %v", err)
	}

	for _, section := range []string{"logging", "capture", "snapshots", "exporter"} {
		if _, ok := doc[section]; !ok {
			t.Errorf("Starter config is missing the %q section", section)
		}
	}
}

// TestStarterConfig_Loads runs the full load path over the generated file:
// the defaults it documents must survive parsing and validation.
func TestStarterConfig_Loads(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Generated config failed to load: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Snapshots.Store != "badger" {
		t.Errorf("Expected store 'badger', got %q", cfg.Snapshots.Store)
	}
	if cfg.Exporter.CaptureRate != 1 {
		t.Errorf("Expected capture_rate 1, got %d", cfg.Exporter.CaptureRate)
	}
}
