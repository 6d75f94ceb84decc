package canon

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/marmos91/mountscope/pkg/mountinfo"
)

// Renumber runs all five renumbering passes over the records, in place.
//
// Pass order is fixed: mount/parent IDs, device numbers, snap revision path
// segments, peer-group tags, loop device numbers. Each pass visits every
// record before the next pass starts; record order within a pass is input
// order, which is what defines the canonical numbering.
func Renumber(records []*mountinfo.Record) {
	renumberMountIDs(records, newIntAllocator(0))
	renumberDevices(records, newDeviceAllocator())
	renumberSnapRevisions(records, make(map[string]*stringAllocator))
	renumberPeerGroups(records, newStringAllocator(1))
	renumberLoopDevices(records, newStringAllocator(0))
}

// renumberMountIDs relabels mount and parent IDs from one shared allocator.
//
// The parent ID is allocated before the mount ID of the same record, so a
// record introducing a fresh parent numbers it in tree-discovery order: the
// first record's parent gets 0, the record itself 1, and so on.
func renumberMountIDs(records []*mountinfo.Record, ids *intAllocator) {
	for _, r := range records {
		r.ParentID = ids.alloc(r.ParentID)
		r.MountID = ids.alloc(r.MountID)
	}
}

// renumberDevices relabels device numbers, keeping same-major groups
// together (see deviceAllocator).
func renumberDevices(records []*mountinfo.Record, devs *deviceAllocator) {
	for _, r := range records {
		r.Dev = devs.alloc(r.Dev)
	}
}

// snapMountPrefixes are the two path shapes under which snap revisions
// appear as the segment after the snap name.
var snapMountPrefixes = []string{"/snap/", "/var/lib/snapd/snap/"}

// renumberSnapRevisions relabels the revision segment of snap mount points.
//
// Mount points shaped /snap/<name>/<rev>/... or
// /var/lib/snapd/snap/<name>/<rev>/... get <rev> replaced with a canonical
// per-name sequence starting at 1, in first-seen order per name. The two
// path shapes share one counter per name. Revisions are numeric or
// x-prefixed numeric (locally installed snaps); anything else, and any
// non-matching mount point, is left untouched.
func renumberSnapRevisions(records []*mountinfo.Record, revs map[string]*stringAllocator) {
	for _, r := range records {
		for _, prefix := range snapMountPrefixes {
			rest, ok := strings.CutPrefix(r.MountPoint, prefix)
			if !ok {
				continue
			}
			name, after, ok := strings.Cut(rest, "/")
			if !ok || name == "" {
				continue
			}
			rev, tail, hadTail := strings.Cut(after, "/")
			if !isSnapRevision(rev) {
				continue
			}

			alloc := revs[name]
			if alloc == nil {
				alloc = newStringAllocator(1)
				revs[name] = alloc
			}
			canonical := strconv.Itoa(alloc.alloc(rev))

			r.MountPoint = prefix + name + "/" + canonical
			if hadTail {
				r.MountPoint += "/" + tail
			}
			break
		}
	}
}

// isSnapRevision reports whether s looks like a snap revision: a run of
// digits, optionally prefixed with "x" for locally installed snaps.
func isSnapRevision(s string) bool {
	s = strings.TrimPrefix(s, "x")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// renumberPeerGroups relabels peer-group identifiers inside optional fields.
//
// Every run of digits in every optional field is treated as a peer-group ID
// and replaced with a canonical sequential ID starting at 1, first-seen
// order across the whole record set. The surrounding tag text
// (shared:, master:, propagate_from:) is preserved verbatim.
func renumberPeerGroups(records []*mountinfo.Record, groups *stringAllocator) {
	for _, r := range records {
		for i, field := range r.OptFields {
			r.OptFields[i] = digitRun.ReplaceAllStringFunc(field, func(id string) string {
				return strconv.Itoa(groups.alloc(id))
			})
		}
	}
}

var loopDevice = regexp.MustCompile(`loop([0-9]+)`)

// renumberLoopDevices relabels loop device numbers in the mount source:
// loop<N> becomes loop<canonical>, starting at 0 in first-seen order.
func renumberLoopDevices(records []*mountinfo.Record, loops *stringAllocator) {
	for _, r := range records {
		r.MountSource = loopDevice.ReplaceAllStringFunc(r.MountSource, func(m string) string {
			return "loop" + strconv.Itoa(loops.alloc(strings.TrimPrefix(m, "loop")))
		})
	}
}
