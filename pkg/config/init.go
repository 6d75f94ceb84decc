package config

import (
	"fmt"
	"os"
)

// starterConfig is the commented configuration written by `config init`.
// Every value shown is the default; uncomment and edit to change it.
const starterConfig = `# mountscope configuration
#
# Values shown are the defaults. Environment variables override this file
# (MOUNTSCOPE_LOGGING_LEVEL=DEBUG, MOUNTSCOPE_SNAPSHOTS_STORE=s3, ...).

logging:
  # Minimum log level: DEBUG, INFO, WARN, ERROR
  level: "INFO"
  # Log format: text or json
  format: "text"
  # Log destination: stdout, stderr, or a file path
  output: "stderr"

capture:
  # Mount table read when no source is given on the command line.
  # Use /proc/<pid>/mountinfo to inspect another mount namespace.
  source: "/proc/self/mountinfo"

snapshots:
  # Snapshot store: memory, badger, or s3
  store: "badger"

  badger:
    # Database directory; defaults under $XDG_DATA_HOME/mountscope
    # path: "/var/lib/mountscope/snapshots"

  s3:
    # Required when store is "s3"
    # bucket: "mount-snapshots"
    # region: "eu-west-1"
    # Optional: custom endpoint for MinIO / Localstack
    # endpoint: "http://localhost:9000"
    # access_key_id: ""
    # secret_access_key: ""
    # key_prefix: "mountscope/"

exporter:
  # Metrics endpoint bind address for ` + "`mountscope serve`" + `
  listen: ":9312"
  # Mount-table re-reads per second; scrapes beyond this are served from
  # the cached table
  capture_rate: 1
  capture_burst: 5
  shutdown_timeout: 10s
`

// InitConfig writes a commented starter configuration file to the default
// location and returns its path.
//
// Fails if the file already exists unless force is true. The configuration
// directory is created if missing.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(GetConfigDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
