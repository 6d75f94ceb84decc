package mountinfo

import (
	"strconv"
	"strings"
)

// Attribute describes one queryable Record field.
//
// The attribute table is the single source of truth for the filter language
// and the selector renderer: filter values are coerced with ParseValue, a
// record's current value is read with Value, and selectors print with Format.
// Building this as a static table (rather than inspecting the struct at
// runtime) keeps the attribute set closed and the coercion rules explicit.
type Attribute struct {
	// Name is the attribute name as written in filter and selector
	// expressions, e.g. "mount_point".
	Name string

	// parse coerces a filter value string into the attribute's declared
	// type. Integer attributes parse as integers, the device attribute as
	// a major:minor pair, everything else as a plain string.
	parse func(s string) (any, error)

	// value reads the attribute's current (possibly canonicalized) value
	// from a record, in the same type parse produces.
	value func(r *Record) any

	// format renders the attribute for display.
	format func(r *Record) string
}

// ParseValue coerces a filter value into the attribute's declared type.
func (a *Attribute) ParseValue(s string) (any, error) {
	return a.parse(s)
}

// Value returns the attribute's current value from the record.
//
// The returned value is always comparable with == against the result of
// ParseValue for the same attribute.
func (a *Attribute) Value(r *Record) any {
	return a.value(r)
}

// Format renders the attribute's current value for display.
func (a *Attribute) Format(r *Record) string {
	return a.format(r)
}

func parseInt(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func parseString(s string) (any, error) {
	return s, nil
}

// attributes is the full attribute table, in wire-field order.
//
// OptFields is a list on the record; for filtering and display it is treated
// as its space-joined rendering, matching how the field reads on the wire.
var attributes = []*Attribute{
	{
		Name:   "mount_id",
		parse:  parseInt,
		value:  func(r *Record) any { return r.MountID },
		format: func(r *Record) string { return strconv.Itoa(r.MountID) },
	},
	{
		Name:   "parent_id",
		parse:  parseInt,
		value:  func(r *Record) any { return r.ParentID },
		format: func(r *Record) string { return strconv.Itoa(r.ParentID) },
	},
	{
		Name: "dev",
		parse: func(s string) (any, error) {
			d, err := ParseDevice(s)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
		value:  func(r *Record) any { return r.Dev },
		format: func(r *Record) string { return r.Dev.String() },
	},
	{
		Name:   "root_dir",
		parse:  parseString,
		value:  func(r *Record) any { return r.RootDir },
		format: func(r *Record) string { return r.RootDir },
	},
	{
		Name:   "mount_point",
		parse:  parseString,
		value:  func(r *Record) any { return r.MountPoint },
		format: func(r *Record) string { return r.MountPoint },
	},
	{
		Name:   "mount_opts",
		parse:  parseString,
		value:  func(r *Record) any { return r.MountOpts },
		format: func(r *Record) string { return r.MountOpts },
	},
	{
		Name:   "opt_fields",
		parse:  parseString,
		value:  func(r *Record) any { return strings.Join(r.OptFields, " ") },
		format: func(r *Record) string { return strings.Join(r.OptFields, " ") },
	},
	{
		Name:   "fs_type",
		parse:  parseString,
		value:  func(r *Record) any { return r.FsType },
		format: func(r *Record) string { return r.FsType },
	},
	{
		Name:   "mount_source",
		parse:  parseString,
		value:  func(r *Record) any { return r.MountSource },
		format: func(r *Record) string { return r.MountSource },
	},
	{
		Name:   "sb_opts",
		parse:  parseString,
		value:  func(r *Record) any { return r.SuperOpts },
		format: func(r *Record) string { return r.SuperOpts },
	},
}

// attributesByName indexes the attribute table for lookup by expression name.
var attributesByName = func() map[string]*Attribute {
	m := make(map[string]*Attribute, len(attributes))
	for _, a := range attributes {
		m[a.Name] = a
	}
	return m
}()

// LookupAttribute returns the attribute with the given name, or nil if the
// name is outside the attribute set.
func LookupAttribute(name string) *Attribute {
	return attributesByName[name]
}

// AttributeNames returns the known attribute names in wire-field order.
// Used for diagnostics when an expression names an unknown attribute.
func AttributeNames() []string {
	names := make([]string, len(attributes))
	for i, a := range attributes {
		names[i] = a.Name
	}
	return names
}
