package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/mountscope/pkg/canon"
	"github.com/marmos91/mountscope/pkg/query"
)

// queryOptions holds the per-invocation toggles of the query command.
type queryOptions struct {
	root *rootOptions

	one      bool
	renumber bool
	rename   bool
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	opts := &queryOptions{root: root}

	cmd := &cobra.Command{
		Use:   "query [expression...]",
		Short: "Filter and print mount-table records",
		Long: `Query reads a mount table and prints the records matching the given
expressions (all expressions must match). Expression forms:

  .attr=value / attr=value   exact match on the named attribute
  path                       exact match on mount_point
  path...                    prefix match on mount_point
  .attr                      print only this attribute (repeatable)

Known attributes: mount_id, parent_id, dev, root_dir, mount_point,
mount_opts, opt_fields, fs_type, mount_source, sb_opts.`,
		Example: `  # All squashfs mounts
  mountscope query .fs_type=squashfs

  # Everything mounted under /snap, canonicalized for comparison
  mountscope query --renumber --rename /snap...

  # Just the device of the root mount, which must be unique
  mountscope query --one / .dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.one, "one", false, "require exactly one matching record")
	flags.BoolVar(&opts.renumber, "renumber", false, "canonicalize mount IDs, devices, snap revisions, peer groups and loop devices")
	flags.BoolVar(&opts.rename, "rename", false, "normalize /dev/vd* block device names to /dev/sd*")

	return cmd
}

func runQuery(opts *queryOptions, args []string) error {
	// Expressions parse before any input is read, so an unknown attribute
	// never produces partial output.
	q, err := query.ParseExprs(args)
	if err != nil {
		return err
	}

	records, err := opts.root.readRecords(os.Stdin)
	if err != nil {
		return err
	}

	matched := q.Filter(records)
	canon.Apply(matched, canon.Options{Renumber: opts.renumber, Rename: opts.rename})

	if opts.one {
		rec, err := query.RequireOne(matched)
		if err != nil {
			return err
		}
		fmt.Println(q.Select(rec))
		return nil
	}

	for _, rec := range matched {
		fmt.Println(q.Select(rec))
	}
	return nil
}
