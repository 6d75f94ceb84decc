// Package canon rewrites volatile kernel-assigned identifiers in mount-table
// records into deterministic canonical values.
//
// Mount IDs, device numbers, peer-group tags, loop device numbers and snap
// revision path segments are all assigned by the kernel (or snapd) in an
// order that varies across boots and machines. Each renumbering pass
// relabels one identifier kind in first-seen order, so two snapshots of the
// same mount tree captured on different runs canonicalize to identical text
// and become diffable by plain comparison.
//
// Every pass owns an explicit allocator: a map from original identifier to
// canonical identifier plus a counter. Allocators are plain values handed
// into the passes, which keeps the "first seen defines the numbering" state
// auditable and testable per pass. Passes run pass-major over the full
// record sequence (each pass visits every record before the next pass
// starts), so first-seen order is computed independently per identifier
// kind.
package canon

import "github.com/marmos91/mountscope/pkg/mountinfo"

// intAllocator lazily maps original integer identifiers to a dense canonical
// sequence in first-seen order.
type intAllocator struct {
	assigned map[int]int
	next     int
}

// newIntAllocator returns an allocator whose first canonical value is start.
func newIntAllocator(start int) *intAllocator {
	return &intAllocator{assigned: make(map[int]int), next: start}
}

// alloc returns the canonical value for orig, assigning the next one on
// first sight.
func (a *intAllocator) alloc(orig int) int {
	if canonical, ok := a.assigned[orig]; ok {
		return canonical
	}
	canonical := a.next
	a.next++
	a.assigned[orig] = canonical
	return canonical
}

// stringAllocator is an intAllocator keyed by string. Used where the
// original identifier is a textual token (peer-group digit runs).
type stringAllocator struct {
	assigned map[string]int
	next     int
}

func newStringAllocator(start int) *stringAllocator {
	return &stringAllocator{assigned: make(map[string]int), next: start}
}

func (a *stringAllocator) alloc(orig string) int {
	if canonical, ok := a.assigned[orig]; ok {
		return canonical
	}
	canonical := a.next
	a.next++
	a.assigned[orig] = canonical
	return canonical
}

// deviceAllocator maps original device numbers to canonical ones while
// preserving major-number grouping: partitions of one physical device share
// an original major, and their canonical forms share a canonical major.
//
// Majors canonicalize densely from 0 in first-seen order; within each
// canonical major, minors canonicalize densely from 0 in first-seen order.
// Both first-seen orders are tracked in explicit side tables so no map
// iteration order can leak into the output.
type deviceAllocator struct {
	assigned map[mountinfo.Device]mountinfo.Device

	// majors maps an original major to its canonical major, in first-seen
	// order of the original majors.
	majors map[int]int

	// minorCount counts the distinct original minors already canonicalized
	// under each canonical major; the count is the next minor to hand out.
	minorCount map[int]int
}

func newDeviceAllocator() *deviceAllocator {
	return &deviceAllocator{
		assigned:   make(map[mountinfo.Device]mountinfo.Device),
		majors:     make(map[int]int),
		minorCount: make(map[int]int),
	}
}

// alloc returns the canonical device for orig, assigning one on first sight.
func (a *deviceAllocator) alloc(orig mountinfo.Device) mountinfo.Device {
	if canonical, ok := a.assigned[orig]; ok {
		return canonical
	}

	major, ok := a.majors[orig.Major]
	if !ok {
		major = len(a.majors)
		a.majors[orig.Major] = major
	}

	canonical := mountinfo.NewDevice(major, a.minorCount[major])
	a.minorCount[major]++
	a.assigned[orig] = canonical
	return canonical
}
