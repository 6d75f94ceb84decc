package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/marmos91/mountscope/pkg/snapshot"
)

// Default values applied when the config file or environment leaves a field
// unset. Everything here is overridable.
const (
	DefaultLogLevel  = "INFO"
	DefaultLogFormat = "text"
	DefaultLogOutput = "stderr"

	DefaultSnapshotStore = "badger"

	DefaultExporterListen          = ":9312"
	DefaultExporterCaptureRate     = 1
	DefaultExporterCaptureBurst    = 5
	DefaultExporterShutdownTimeout = 10 * time.Second
)

// ApplyDefaults fills in default values for any unset configuration fields.
//
// This is called after unmarshaling and before validation, so a minimal (or
// absent) config file yields a fully working configuration.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyCaptureDefaults(&cfg.Capture)
	applySnapshotsDefaults(&cfg.Snapshots)
	applyExporterDefaults(&cfg.Exporter)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	// Normalize level to uppercase so validation and the logger agree
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = DefaultLogFormat
	}
	if cfg.Output == "" {
		cfg.Output = DefaultLogOutput
	}
}

func applyCaptureDefaults(cfg *CaptureConfig) {
	if cfg.Source == "" {
		cfg.Source = snapshot.DefaultSource
	}
}

func applySnapshotsDefaults(cfg *SnapshotsConfig) {
	if cfg.Store == "" {
		cfg.Store = DefaultSnapshotStore
	}

	// The badger store needs a path; default it under the XDG data dir so
	// `snapshot save` works out of the box.
	if cfg.Store == "badger" {
		if cfg.Badger == nil {
			cfg.Badger = make(map[string]any)
		}
		if path, _ := cfg.Badger["path"].(string); path == "" {
			cfg.Badger["path"] = filepath.Join(getDataDir(), "snapshots")
		}
	}
}

func applyExporterDefaults(cfg *ExporterConfig) {
	if cfg.Listen == "" {
		cfg.Listen = DefaultExporterListen
	}
	if cfg.CaptureRate == 0 {
		cfg.CaptureRate = DefaultExporterCaptureRate
	}
	if cfg.CaptureBurst == 0 {
		cfg.CaptureBurst = DefaultExporterCaptureBurst
		if cfg.CaptureBurst < cfg.CaptureRate {
			cfg.CaptureBurst = cfg.CaptureRate
		}
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultExporterShutdownTimeout
	}
}
