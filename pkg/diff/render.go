package diff

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RenderOptions controls the text rendering of a Report.
type RenderOptions struct {
	// Color enables ANSI colors for added/removed/changed lines. fatih/color
	// additionally disables itself when the writer is not a terminal.
	Color bool
}

// Render writes the report in a unified-diff-like text form:
//
//	+ <record>                        added mount
//	- <record>                        removed mount
//	~ <mount point>                   modified mount
//	    attr: <before> -> <after>     one line per changed attribute
//
// Records render in wire layout so a diff line can be fed back through the
// parser. An empty report writes nothing.
func (r *Report) Render(w io.Writer, opts RenderOptions) error {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	mod := color.New(color.FgYellow)
	if !opts.Color {
		add.DisableColor()
		del.DisableColor()
		mod.DisableColor()
	}

	for _, rec := range r.Removed {
		if _, err := del.Fprintf(w, "- %s\n", rec); err != nil {
			return err
		}
	}
	for _, rec := range r.Added {
		if _, err := add.Fprintf(w, "+ %s\n", rec); err != nil {
			return err
		}
	}
	for _, m := range r.Modified {
		if _, err := mod.Fprintf(w, "~ %s\n", m.Before.MountPoint); err != nil {
			return err
		}
		for _, c := range m.Changes {
			if _, err := fmt.Fprintf(w, "    %s: %s -> %s\n", c.Attribute, c.Before, c.After); err != nil {
				return err
			}
		}
	}
	return nil
}
