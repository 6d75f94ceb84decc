package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete mountscope configuration.
//
// This structure captures all configurable aspects of the tool:
//   - Logging configuration
//   - Mount-table capture source
//   - Snapshot store selection and configuration (store-specific)
//   - Exporter (serve mode) settings
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (MOUNTSCOPE_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Store Configuration Pattern:
// Each snapshot store implementation defines its own configuration type.
// The Config struct contains type-specific sections (snapshots.badger,
// snapshots.s3) and only the section matching the selected store is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Capture selects where mount tables are read from
	Capture CaptureConfig `mapstructure:"capture"`

	// Snapshots specifies the snapshot store type and type-specific
	// configuration
	Snapshots SnapshotsConfig `mapstructure:"snapshots"`

	// Exporter contains serve-mode settings
	Exporter ExporterConfig `mapstructure:"exporter"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized
	// to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// CaptureConfig selects the default mount-table source.
type CaptureConfig struct {
	// Source is the mountinfo path read when no explicit source is given
	// on the command line. Typically /proc/self/mountinfo.
	Source string `mapstructure:"source" validate:"required"`
}

// SnapshotsConfig specifies snapshot store configuration.
//
// The Store field determines which implementation is used.
// Only the corresponding type-specific configuration section is used.
type SnapshotsConfig struct {
	// Store specifies which snapshot store implementation to use
	// Valid values: memory, badger, s3
	Store string `mapstructure:"store" validate:"required,oneof=memory badger s3"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Store = "badger"
	Badger map[string]any `mapstructure:"badger"`

	// S3 contains S3-specific configuration
	// Only used when Store = "s3"
	S3 map[string]any `mapstructure:"s3"`
}

// ExporterConfig contains serve-mode settings.
type ExporterConfig struct {
	// Listen is the metrics endpoint bind address
	Listen string `mapstructure:"listen" validate:"required"`

	// CaptureRate caps mount-table re-reads per second
	CaptureRate uint `mapstructure:"capture_rate"`

	// CaptureBurst is the re-read burst budget
	CaptureBurst uint `mapstructure:"capture_burst"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (MOUNTSCOPE_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the MOUNTSCOPE_ prefix and underscores
	// Example: MOUNTSCOPE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("MOUNTSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/mountscope/config.yaml
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - use defaults. Viper reports
		// this as ConfigFileNotFoundError when searching, and as a plain
		// file-not-found error when an explicit path was set.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mountscope")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "mountscope")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// GetConfigDir returns the configuration directory path (exposed for the
// init command).
func GetConfigDir() string {
	return getConfigDir()
}

// getDataDir returns the default data directory, used for the badger store.
//
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share, or falls back to
// current directory.
func getDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "mountscope")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".local", "share", "mountscope")
}
