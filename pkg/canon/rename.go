package canon

import (
	"regexp"

	"github.com/marmos91/mountscope/pkg/mountinfo"
)

// blockDevice matches physical (sd) and virtio (vd) block device nodes in a
// mount source, capturing everything after the driver prefix.
var blockDevice = regexp.MustCompile(`/dev/[sv]d([a-z])`)

// Rename normalizes block device naming in mount sources, in place.
//
// Occurrences of /dev/vd<letter> are rewritten to /dev/sd<letter>; the
// letter (and any partition suffix after it) is preserved verbatim. This
// folds the virtio-vs-SCSI naming difference between virtualized and
// physical backends, so snapshots from both kinds of machine compare equal.
// No allocation state is involved.
func Rename(records []*mountinfo.Record) {
	for _, r := range records {
		r.MountSource = blockDevice.ReplaceAllString(r.MountSource, "/dev/sd$1")
	}
}

// Options selects which canonicalization modes Apply runs.
type Options struct {
	// Renumber enables the five identifier renumbering passes.
	Renumber bool

	// Rename enables block device name normalization.
	Rename bool
}

// Apply runs the requested canonicalization modes over the records, in
// place. Renumbering always runs before renaming when both are enabled.
func Apply(records []*mountinfo.Record, opts Options) {
	if opts.Renumber {
		Renumber(records)
	}
	if opts.Rename {
		Rename(records)
	}
}
