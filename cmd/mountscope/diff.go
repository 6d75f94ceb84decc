package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/mountscope/pkg/canon"
	"github.com/marmos91/mountscope/pkg/diff"
	"github.com/marmos91/mountscope/pkg/mountinfo"
	"github.com/marmos91/mountscope/pkg/snapshot"
)

// diffOptions holds the per-invocation toggles of the diff command.
type diffOptions struct {
	root *rootOptions

	files    bool
	renumber bool
	rename   bool
	noColor  bool
}

func newDiffCmd(root *rootOptions) *cobra.Command {
	opts := &diffOptions{root: root}

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two mount-table snapshots",
		Long: `Diff compares two stored snapshots (or, with --files, two mountinfo
files) structurally: mounts are matched by mount point and root directory,
and both sides are canonicalized first so kernel-assigned identifiers do
not show up as changes.

Exits with status 1 when the tables differ.`,
		Example: `  mountscope snapshot save before
  # ... change mounts ...
  mountscope snapshot save after
  mountscope diff before after`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.files, "files", false, "treat arguments as mountinfo file paths instead of snapshot names")
	flags.BoolVar(&opts.renumber, "renumber", true, "canonicalize volatile identifiers before comparing")
	flags.BoolVar(&opts.rename, "rename", true, "normalize block device names before comparing")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runDiff(cmd *cobra.Command, opts *diffOptions, beforeArg, afterArg string) error {
	var before, after []*mountinfo.Record

	if opts.files {
		var err error
		if before, err = readTableFile(beforeArg); err != nil {
			return err
		}
		if after, err = readTableFile(afterArg); err != nil {
			return err
		}
	} else {
		store, err := openStore(opts.root, cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		beforeSnap, err := store.Get(cmd.Context(), beforeArg)
		if err != nil {
			return err
		}
		afterSnap, err := store.Get(cmd.Context(), afterArg)
		if err != nil {
			return err
		}
		before, after = beforeSnap.Records, afterSnap.Records
	}

	report := diff.Tables(before, after, diff.Options{
		Canon: canon.Options{Renumber: opts.renumber, Rename: opts.rename},
	})

	if err := report.Render(os.Stdout, diff.RenderOptions{Color: !opts.noColor}); err != nil {
		return err
	}
	if !report.Empty() {
		return fmt.Errorf("mount tables differ (%d added, %d removed, %d modified)",
			len(report.Added), len(report.Removed), len(report.Modified))
	}
	return nil
}

// readTableFile parses a mountinfo file given on the command line.
func readTableFile(path string) ([]*mountinfo.Record, error) {
	if path == "-" {
		return mountinfo.ParseTable(os.Stdin)
	}
	snap, err := snapshot.Capture(path)
	if err != nil {
		return nil, err
	}
	return snap.Records, nil
}
