package query

import (
	"fmt"
	"strings"
)

// UnknownAttributeError reports a filter or selector expression naming an
// attribute outside the known attribute set.
//
// It is raised while parsing expressions, before any record is read, so an
// invalid query never produces partial output.
type UnknownAttributeError struct {
	// Name is the attribute name the expression used.
	Name string

	// Known lists the valid attribute names, for diagnostics.
	Known []string
}

// Error implements the error interface.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q (known attributes: %s)",
		e.Name, strings.Join(e.Known, ", "))
}

// CardinalityError reports that a query required exactly one matching record
// but the filter left a different number.
type CardinalityError struct {
	// Count is the number of records that survived filtering.
	Count int
}

// Error implements the error interface.
func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected exactly one matching record, got %d", e.Count)
}
