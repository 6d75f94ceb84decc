// Package query implements the filter and selector expression language for
// mount-table records.
//
// Each expression is one token; a list of expressions forms a query whose
// predicates are ANDed. Four forms exist:
//
//	.attr=value / attr=value   exact match on the named attribute
//	path                       exact match on mount_point
//	path...                    prefix match on mount_point
//	.attr                      selector: print only this attribute
//
// Bare paths and the trailing-dots form are sugar over the common case of
// filtering on the mount point; the dotted attribute forms give full access
// to every record field.
package query

import (
	"fmt"
	"strings"

	"github.com/marmos91/mountscope/pkg/mountinfo"
)

// Predicate is one parsed filter condition.
//
// The variant set is closed: exact-match on an attribute's typed value, or
// prefix-match on an attribute's string rendering. Predicates are pure; a
// record always satisfies the same set of predicates regardless of
// evaluation order.
type Predicate interface {
	// Matches reports whether the record satisfies the predicate.
	Matches(r *mountinfo.Record) bool
}

// exactPredicate matches when the attribute's typed value equals the
// expected value (coerced at expression-parse time).
type exactPredicate struct {
	attr *mountinfo.Attribute
	want any
}

func (p *exactPredicate) Matches(r *mountinfo.Record) bool {
	return p.attr.Value(r) == p.want
}

// prefixPredicate matches when the attribute's string rendering starts with
// the expected prefix.
type prefixPredicate struct {
	attr   *mountinfo.Attribute
	prefix string
}

func (p *prefixPredicate) Matches(r *mountinfo.Record) bool {
	return strings.HasPrefix(p.attr.Format(r), p.prefix)
}

// Query is a parsed list of expressions: zero or more filter predicates plus
// zero or more output selectors.
type Query struct {
	predicates []Predicate
	selectors  []*mountinfo.Attribute
}

// ParseExprs parses a list of expression tokens into a Query.
//
// Unknown attribute names in either filter or selector position fail with
// *UnknownAttributeError; a filter value that cannot be coerced to the
// attribute's type fails with a plain error. Both are detected before any
// record is read.
func ParseExprs(exprs []string) (*Query, error) {
	q := &Query{}
	for _, expr := range exprs {
		if err := q.parseExpr(expr); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (q *Query) parseExpr(expr string) error {
	if name, value, ok := strings.Cut(expr, "="); ok {
		attr, err := lookup(strings.TrimPrefix(name, "."))
		if err != nil {
			return err
		}
		want, err := attr.ParseValue(value)
		if err != nil {
			return fmt.Errorf("invalid value for attribute %q: %w", attr.Name, err)
		}
		q.predicates = append(q.predicates, &exactPredicate{attr: attr, want: want})
		return nil
	}

	if strings.HasPrefix(expr, ".") {
		attr, err := lookup(strings.TrimPrefix(expr, "."))
		if err != nil {
			return err
		}
		q.selectors = append(q.selectors, attr)
		return nil
	}

	mountPoint := mountinfo.LookupAttribute("mount_point")
	if prefix, ok := strings.CutSuffix(expr, "..."); ok {
		q.predicates = append(q.predicates, &prefixPredicate{attr: mountPoint, prefix: prefix})
		return nil
	}

	q.predicates = append(q.predicates, &exactPredicate{attr: mountPoint, want: expr})
	return nil
}

func lookup(name string) (*mountinfo.Attribute, error) {
	attr := mountinfo.LookupAttribute(name)
	if attr == nil {
		return nil, &UnknownAttributeError{Name: name, Known: mountinfo.AttributeNames()}
	}
	return attr, nil
}

// Matches reports whether the record satisfies every predicate in the query.
// An empty predicate list matches everything.
func (q *Query) Matches(r *mountinfo.Record) bool {
	for _, p := range q.predicates {
		if !p.Matches(r) {
			return false
		}
	}
	return true
}

// Filter returns the records matching the query, in input order.
func (q *Query) Filter(records []*mountinfo.Record) []*mountinfo.Record {
	matched := make([]*mountinfo.Record, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched
}

// HasSelectors reports whether the query restricts output to chosen
// attributes rather than full records.
func (q *Query) HasSelectors() bool {
	return len(q.selectors) > 0
}

// Select renders the record's selected attributes, space-separated, in the
// order the selectors were given. With no selectors it renders the full
// record in wire layout.
func (q *Query) Select(r *mountinfo.Record) string {
	if len(q.selectors) == 0 {
		return r.String()
	}
	parts := make([]string, len(q.selectors))
	for i, attr := range q.selectors {
		parts[i] = attr.Format(r)
	}
	return strings.Join(parts, " ")
}

// RequireOne returns the single record in the slice, or a *CardinalityError
// when the count is anything other than one. Used by the --one toggle.
func RequireOne(records []*mountinfo.Record) (*mountinfo.Record, error) {
	if len(records) != 1 {
		return nil, &CardinalityError{Count: len(records)}
	}
	return records[0], nil
}
