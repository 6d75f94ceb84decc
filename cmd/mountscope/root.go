package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/mountscope/internal/logger"
	"github.com/marmos91/mountscope/pkg/config"
	"github.com/marmos91/mountscope/pkg/mountinfo"
)

// rootOptions carries state shared by all subcommands: the loaded
// configuration and the global input-source flags.
type rootOptions struct {
	configPath string
	logLevel   string

	// file overrides the capture source: a mountinfo path, or "-" for stdin.
	file string

	// pid selects another process's mount table via /proc/<pid>/mountinfo.
	pid int

	cfg *config.Config
}

// NewRootCmd builds the mountscope command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "mountscope",
		Short: "Parse, query, canonicalize and diff kernel mount tables",
		Long: `mountscope reads mountinfo-format mount tables, selects records with a
small filter language, rewrites volatile kernel-assigned identifiers into
deterministic canonical values, and persists named snapshots so mount
tables from different runs and machines become diffable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := cfg.Logging.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			logger.SetLevel(level)
			logger.SetFormat(cfg.Logging.Format)
			return logger.SetOutput(cfg.Logging.Output)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/mountscope/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (DEBUG, INFO, WARN, ERROR)")
	flags.StringVarP(&opts.file, "file", "f", "", `mountinfo file to read ("-" for stdin; default: capture.source)`)
	flags.IntVar(&opts.pid, "pid", 0, "read /proc/<pid>/mountinfo instead of the default source")

	cmd.AddCommand(
		newQueryCmd(opts),
		newSnapshotCmd(opts),
		newDiffCmd(opts),
		newServeCmd(opts),
		newConfigCmd(opts),
	)

	return cmd
}

// source returns the mountinfo path the global flags select, or "-" when the
// table should be read from stdin.
func (o *rootOptions) source() string {
	switch {
	case o.file != "":
		return o.file
	case o.pid != 0:
		return "/proc/" + strconv.Itoa(o.pid) + "/mountinfo"
	default:
		return o.cfg.Capture.Source
	}
}

// readRecords reads and parses the mount table the global flags select.
func (o *rootOptions) readRecords(stdin io.Reader) ([]*mountinfo.Record, error) {
	src := o.source()
	if src == "-" {
		return mountinfo.ParseTable(stdin)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open mount table: %w", err)
	}
	defer f.Close()

	return mountinfo.ParseTable(f)
}
