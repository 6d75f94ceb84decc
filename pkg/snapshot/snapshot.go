// Package snapshot captures mount-table snapshots and persists them in named
// stores for later querying and comparison.
//
// Canonicalization exists so two snapshots become diffable; this package
// provides the other half of that workflow: capture a table from /proc (or
// any reader), stamp it with where and when it was taken, and keep it under
// a name. Snapshot bodies round-trip exactly because the record formatter is
// byte-stable, so a stored snapshot is simply the wire-format lines.
package snapshot

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/mountscope/pkg/mountinfo"
)

// DefaultSource is the mount table of the calling process.
const DefaultSource = "/proc/self/mountinfo"

// Info describes a stored snapshot without its record body.
type Info struct {
	// ID uniquely identifies the snapshot across stores and machines.
	ID uuid.UUID `json:"id"`

	// Name is the store-local name the snapshot was saved under.
	Name string `json:"name"`

	// Hostname of the machine the table was captured on.
	Hostname string `json:"hostname"`

	// Source is the path (or reader description) the table was read from.
	Source string `json:"source"`

	// CapturedAt is the capture timestamp.
	CapturedAt time.Time `json:"captured_at"`

	// RecordCount is the number of mount records in the body.
	RecordCount int `json:"record_count"`
}

// Snapshot is a captured mount table plus its capture metadata.
type Snapshot struct {
	Info

	// Records holds the parsed mount records in capture order.
	Records []*mountinfo.Record
}

// Capture reads and parses the mount table at path.
//
// Parse failures abort the capture: a mount table is kernel output, so a
// malformed line means the snapshot would be unusable and is surfaced
// immediately rather than stored partially.
func Capture(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mount table: %w", err)
	}
	defer f.Close()

	return CaptureReader(f, path)
}

// CapturePid reads the mount table of another process via /proc.
func CapturePid(pid int) (*Snapshot, error) {
	return Capture(fmt.Sprintf("/proc/%d/mountinfo", pid))
}

// CaptureReader parses a mount table from r. The source string records where
// the table came from (a path, or "-" for stdin).
func CaptureReader(r io.Reader, source string) (*Snapshot, error) {
	records, err := mountinfo.ParseTable(r)
	if err != nil {
		return nil, err
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Snapshot{
		Info: Info{
			ID:          uuid.New(),
			Hostname:    hostname,
			Source:      source,
			CapturedAt:  time.Now().UTC(),
			RecordCount: len(records),
		},
		Records: records,
	}, nil
}

// Body renders the snapshot's records as wire-format lines, one per record,
// with a trailing newline. This is the form stores persist.
func (s *Snapshot) Body() string {
	var sb strings.Builder
	for _, r := range s.Records {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBody parses a stored body back into records. The inverse of Body.
func ParseBody(body string) ([]*mountinfo.Record, error) {
	return mountinfo.ParseTable(strings.NewReader(body))
}
