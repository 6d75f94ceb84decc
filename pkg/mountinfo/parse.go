package mountinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a line that does not conform to the mountinfo layout.
//
// Parsing is strictly positional: every required field must be present, the
// device token must split into exactly two integers, and no tokens may remain
// after the last field. Any deviation produces a ParseError and aborts the
// whole read.
type ParseError struct {
	// Line is the offending input line, verbatim.
	Line string

	// LineNumber is the 1-based position of the line in the input stream.
	// Zero when a single line was parsed outside of a stream.
	LineNumber int

	// Reason describes what did not match the expected layout.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("malformed mountinfo record at line %d: %s", e.LineNumber, e.Reason)
	}
	return fmt.Sprintf("malformed mountinfo record: %s", e.Reason)
}

// optFieldsTerminator separates the variable-length optional fields from the
// three fields that follow them on the wire.
const optFieldsTerminator = "-"

// ParseRecord parses one mountinfo line into a Record.
//
// Fields are consumed positionally: mount ID, parent ID, the major:minor
// device token, root directory, mount point and mount options; then optional
// fields up to the literal "-" terminator (the terminator is not stored); then
// filesystem type, mount source and super-block options. The line must be
// consumed exactly: missing fields and trailing leftovers both fail.
func ParseRecord(line string) (*Record, error) {
	tokens := strings.Fields(line)
	fail := func(reason string) (*Record, error) {
		return nil, &ParseError{Line: line, Reason: reason}
	}

	next := func() (string, bool) {
		if len(tokens) == 0 {
			return "", false
		}
		tok := tokens[0]
		tokens = tokens[1:]
		return tok, true
	}

	rec := &Record{}

	tok, ok := next()
	if !ok {
		return fail("missing mount ID")
	}
	mountID, err := strconv.Atoi(tok)
	if err != nil {
		return fail(fmt.Sprintf("mount ID %q is not an integer", tok))
	}
	rec.MountID = mountID

	tok, ok = next()
	if !ok {
		return fail("missing parent ID")
	}
	parentID, err := strconv.Atoi(tok)
	if err != nil {
		return fail(fmt.Sprintf("parent ID %q is not an integer", tok))
	}
	rec.ParentID = parentID

	tok, ok = next()
	if !ok {
		return fail("missing device number")
	}
	dev, err := ParseDevice(tok)
	if err != nil {
		return fail(err.Error())
	}
	rec.Dev = dev

	if rec.RootDir, ok = next(); !ok {
		return fail("missing root directory")
	}
	if rec.MountPoint, ok = next(); !ok {
		return fail("missing mount point")
	}
	if rec.MountOpts, ok = next(); !ok {
		return fail("missing mount options")
	}

	// Optional fields run until the "-" terminator. The terminator itself is
	// part of the wire layout only; it is not stored.
	for {
		tok, ok = next()
		if !ok {
			return fail("missing optional-fields terminator")
		}
		if tok == optFieldsTerminator {
			break
		}
		rec.OptFields = append(rec.OptFields, tok)
	}

	if rec.FsType, ok = next(); !ok {
		return fail("missing filesystem type")
	}
	if rec.MountSource, ok = next(); !ok {
		return fail("missing mount source")
	}
	if rec.SuperOpts, ok = next(); !ok {
		return fail("missing super-block options")
	}

	if len(tokens) != 0 {
		return fail(fmt.Sprintf("%d trailing token(s) after super-block options", len(tokens)))
	}

	return rec, nil
}

// ParseTable parses a whole mount table, one record per line.
//
// Blank lines are skipped (a trailing newline produces one). The first
// malformed line aborts the read with a *ParseError carrying its line
// number; no records are returned in that case.
func ParseTable(r io.Reader) ([]*Record, error) {
	var records []*Record

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := ParseRecord(line)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				parseErr.LineNumber = lineNo
			}
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mount table: %w", err)
	}

	return records, nil
}
