package mountinfo

import (
	"strconv"
	"strings"
)

// Record is one parsed mount-table entry.
//
// Field order mirrors the wire layout exactly; String renders the fields back
// in this order. The optional-fields section is stored without its trailing
// "-" terminator token.
//
// A Record's shape is fixed once parsed, but canonicalization passes mutate
// individual fields in place. Records are not safe for concurrent mutation;
// the processing pipeline owns each record exclusively at every stage.
type Record struct {
	// MountID is the kernel-assigned unique ID of this mount.
	MountID int

	// ParentID is the MountID of the parent mount.
	ParentID int

	// Dev is the major:minor number of the mounted device.
	Dev Device

	// RootDir is the subtree of the source filesystem exposed at this mount.
	RootDir string

	// MountPoint is the path where the filesystem is mounted.
	MountPoint string

	// MountOpts holds the per-mountpoint options.
	MountOpts string

	// OptFields holds the propagation tags (shared:N, master:N, ...) in
	// input order, without the "-" separator that terminates them on the
	// wire.
	OptFields []string

	// FsType is the filesystem type name.
	FsType string

	// MountSource is the device path or bind-mount origin.
	MountSource string

	// SuperOpts holds the per-superblock options.
	SuperOpts string
}

// String renders the record in the mountinfo wire layout.
//
// The output reproduces the parsed input exactly, except that runs of
// whitespace between the original tokens collapse to single spaces (the
// format treats any whitespace run as one separator, so nothing is lost).
func (r *Record) String() string {
	fields := make([]string, 0, 10+len(r.OptFields))
	fields = append(fields,
		strconv.Itoa(r.MountID),
		strconv.Itoa(r.ParentID),
		r.Dev.String(),
		r.RootDir,
		r.MountPoint,
		r.MountOpts,
	)
	fields = append(fields, r.OptFields...)
	fields = append(fields, "-", r.FsType, r.MountSource, r.SuperOpts)
	return strings.Join(fields, " ")
}
