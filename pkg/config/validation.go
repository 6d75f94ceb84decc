package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// This function uses go-playground/validator for declarative validation
// via struct tags, with additional custom validation for rules that cannot
// be expressed in tags.
//
// Note: Log level normalization is handled in ApplyDefaults, not here.
// Validation accepts both uppercase and lowercase log levels.
//
// Returns an error describing validation failures.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if err := validateCustomRules(cfg); err != nil {
		return err
	}

	return nil
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The selected store's section must carry what its factory needs. These
	// checks duplicate the factory's own validation but fail earlier, at
	// load time, with a config-shaped message.
	switch cfg.Snapshots.Store {
	case "badger":
		path, _ := cfg.Snapshots.Badger["path"].(string)
		inMemory, _ := cfg.Snapshots.Badger["in_memory"].(bool)
		if path == "" && !inMemory {
			return fmt.Errorf("snapshots.badger: path is required")
		}
	case "s3":
		if bucket, _ := cfg.Snapshots.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("snapshots.s3: bucket is required")
		}
		if region, _ := cfg.Snapshots.S3["region"].(string); region == "" {
			return fmt.Errorf("snapshots.s3: region is required")
		}
	}

	if cfg.Exporter.CaptureBurst < cfg.Exporter.CaptureRate {
		return fmt.Errorf("exporter: capture_burst must be at least capture_rate")
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
