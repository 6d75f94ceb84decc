package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/marmos91/mountscope/pkg/canon"
	"github.com/marmos91/mountscope/pkg/config"
	"github.com/marmos91/mountscope/pkg/snapshot"
)

func newSnapshotCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, list, show and delete mount-table snapshots",
	}

	cmd.AddCommand(
		newSnapshotSaveCmd(root),
		newSnapshotListCmd(root),
		newSnapshotShowCmd(root),
		newSnapshotDeleteCmd(root),
	)

	return cmd
}

// openStore builds the configured snapshot store for one command run.
func openStore(root *rootOptions, cmd *cobra.Command) (snapshot.Store, error) {
	return config.CreateSnapshotStore(cmd.Context(), root.cfg)
}

func newSnapshotSaveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Capture the mount table and store it under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			src := root.source()
			var snap *snapshot.Snapshot
			if src == "-" {
				snap, err = snapshot.CaptureReader(os.Stdin, "-")
			} else {
				snap, err = snapshot.Capture(src)
			}
			if err != nil {
				return err
			}
			snap.Name = args[0]

			if err := store.Save(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Printf("Saved snapshot %q (%d records from %s)\n", snap.Name, snap.RecordCount, snap.Source)
			return nil
		},
	}
}

func newSnapshotListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No snapshots stored.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHOST\tSOURCE\tRECORDS\tCAPTURED")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					info.Name, info.Hostname, info.Source, info.RecordCount,
					humanize.Time(info.CapturedAt))
			}
			return w.Flush()
		},
	}
}

func newSnapshotShowCmd(root *rootOptions) *cobra.Command {
	var renumber, rename bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored snapshot's records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			canon.Apply(snap.Records, canon.Options{Renumber: renumber, Rename: rename})
			for _, rec := range snap.Records {
				fmt.Println(rec)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&renumber, "renumber", false, "canonicalize volatile identifiers")
	cmd.Flags().BoolVar(&rename, "rename", false, "normalize /dev/vd* block device names to /dev/sd*")
	return cmd
}

func newSnapshotDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(root, cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted snapshot %q\n", args[0])
			return nil
		},
	}
}
