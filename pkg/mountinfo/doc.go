// Package mountinfo parses and renders kernel mount-table snapshots in the
// /proc/<pid>/mountinfo record format described in proc_pid_mountinfo(5).
//
// The package is deliberately faithful to the wire layout: a parsed Record
// renders back to its input line byte for byte (modulo whitespace runs
// collapsing to single separators), which lets higher layers store, diff and
// re-emit mount tables without an intermediate representation drifting from
// what the kernel actually reported.
//
// Parsing is fail-fast. Mount tables are kernel output, so a line that does
// not conform to the fixed positional layout means the parser's assumptions
// are wrong (or the input is not a mountinfo file) and the whole read is
// aborted with a *ParseError rather than skipping the line.
package mountinfo
