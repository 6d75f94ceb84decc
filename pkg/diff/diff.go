// Package diff compares two mount-table record sets structurally.
//
// Records are keyed by (mount point, root directory): that pair identifies
// "the same mount" across two snapshots even when every kernel-assigned
// identifier differs. Canonicalize both sides first (pkg/canon) to keep
// volatile IDs from showing up as changes.
package diff

import (
	"github.com/marmos91/mountscope/pkg/canon"
	"github.com/marmos91/mountscope/pkg/mountinfo"
)

// Options controls how the two sides are prepared before comparison.
type Options struct {
	// Canon selects canonicalization passes applied to both sides before
	// comparing. Running with renumbering enabled is the normal mode;
	// without it, kernel-assigned IDs make almost every record differ.
	Canon canon.Options
}

// key identifies a mount across snapshots.
type key struct {
	mountPoint string
	rootDir    string
}

// Change is one attribute whose value differs between the two sides of a
// modified mount.
type Change struct {
	// Attribute is the attribute name, as in the query language.
	Attribute string

	// Before is the attribute's rendering on the left side.
	Before string

	// After is the attribute's rendering on the right side.
	After string
}

// Modified is a mount present on both sides with differing attributes.
type Modified struct {
	// Before and After are the two versions of the record.
	Before *mountinfo.Record
	After  *mountinfo.Record

	// Changes lists the differing attributes in wire-field order.
	Changes []Change
}

// Report is the outcome of comparing two record sets.
//
// Added and Removed preserve the input order of the side they came from;
// Modified preserves the left side's order.
type Report struct {
	// Added lists mounts present only on the right side.
	Added []*mountinfo.Record

	// Removed lists mounts present only on the left side.
	Removed []*mountinfo.Record

	// Modified lists mounts present on both sides with attribute changes.
	Modified []Modified
}

// Empty reports whether the two sides compared equal.
func (r *Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Tables compares two record sets and returns the differences.
//
// Both sides are canonicalized in place per opts.Canon before comparison.
// When a mount point appears more than once on a side (stacked mounts over
// the same path and root), occurrences pair up positionally and the
// unpaired surplus counts as added or removed.
func Tables(before, after []*mountinfo.Record, opts Options) *Report {
	canon.Apply(before, opts.Canon)
	canon.Apply(after, opts.Canon)

	afterByKey := make(map[key][]*mountinfo.Record, len(after))
	for _, r := range after {
		k := key{r.MountPoint, r.RootDir}
		afterByKey[k] = append(afterByKey[k], r)
	}

	report := &Report{}
	for _, b := range before {
		k := key{b.MountPoint, b.RootDir}
		remaining := afterByKey[k]
		if len(remaining) == 0 {
			report.Removed = append(report.Removed, b)
			continue
		}
		a := remaining[0]
		afterByKey[k] = remaining[1:]

		if changes := compare(b, a); len(changes) > 0 {
			report.Modified = append(report.Modified, Modified{Before: b, After: a, Changes: changes})
		}
	}

	// Whatever was never paired with a left-side record is new. Input order
	// of the right side is preserved by walking it rather than the map.
	unpaired := make(map[*mountinfo.Record]bool)
	for _, rs := range afterByKey {
		for _, r := range rs {
			unpaired[r] = true
		}
	}
	for _, a := range after {
		if unpaired[a] {
			report.Added = append(report.Added, a)
		}
	}

	return report
}

// compare lists the attributes whose renderings differ between two versions
// of the same mount, in wire-field order.
func compare(before, after *mountinfo.Record) []Change {
	var changes []Change
	for _, name := range mountinfo.AttributeNames() {
		attr := mountinfo.LookupAttribute(name)
		b, a := attr.Format(before), attr.Format(after)
		if b != a {
			changes = append(changes, Change{Attribute: name, Before: b, After: a})
		}
	}
	return changes
}
