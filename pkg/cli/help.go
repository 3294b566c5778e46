// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gavelrun/gavel/pkg/command"
	"github.com/gavelrun/gavel/pkg/schema"
)

// Usage renders plain-text help for a command: the usage line, the
// description, then visible subcommands, arguments and options.
// Hidden subcommands are omitted.
func Usage(c *command.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Usage: %s", strings.Join(c.Path(), " "))
	if len(c.Opts()) > 0 {
		b.WriteString(" [options]")
	}
	if len(visibleChildren(c)) > 0 {
		b.WriteString(" [command]")
	}
	for _, a := range c.Args() {
		b.WriteString(" " + argPlaceholder(a))
	}
	b.WriteString("\n")

	if c.Description() != "" {
		fmt.Fprintf(&b, "\n%s\n", c.Description())
	}

	if children := visibleChildren(c); len(children) > 0 {
		b.WriteString("\nCommands:\n")
		rows := make([][2]string, 0, len(children))
		for _, child := range children {
			name := child.Name()
			if aliases := child.Aliases(); len(aliases) > 0 {
				name += " (" + strings.Join(aliases, ", ") + ")"
			}
			rows = append(rows, [2]string{name, child.Description()})
		}
		writeRows(&b, rows)
	}

	if args := c.Args(); len(args) > 0 {
		b.WriteString("\nArguments:\n")
		rows := make([][2]string, 0, len(args))
		for _, a := range args {
			desc := a.Description
			if a.Default != nil {
				desc = appendNote(desc, fmt.Sprintf("default: %v", a.Default))
			}
			rows = append(rows, [2]string{a.Name, desc})
		}
		writeRows(&b, rows)
	}

	if opts := c.Opts(); len(opts) > 0 {
		b.WriteString("\nOptions:\n")
		rows := make([][2]string, 0, len(opts))
		for _, o := range opts {
			rows = append(rows, [2]string{optUsage(o), optDescription(o)})
		}
		writeRows(&b, rows)
	}

	return b.String()
}

// visibleChildren returns the non-hidden subcommands sorted by name.
func visibleChildren(c *command.Command) []*command.Command {
	children := make([]*command.Command, 0, len(c.Children()))
	for _, child := range c.Children() {
		if !child.IsHidden() {
			children = append(children, child)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})
	return children
}

func argPlaceholder(a schema.Arg) string {
	name := a.Name
	if a.Variadic {
		name += "..."
	}
	if a.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

func optUsage(o schema.Opt) string {
	var s string
	if o.Alias != "" {
		s = "-" + o.Alias + ", "
	} else {
		s = "    "
	}
	s += "--" + o.Name
	if !o.IsBool() {
		s += " <" + string(o.Type) + ">"
	}
	return s
}

func optDescription(o schema.Opt) string {
	desc := o.Description
	if len(o.Choices) > 0 {
		desc = appendNote(desc, "one of: "+strings.Join(o.Choices, ", "))
	}
	if o.Default != nil {
		desc = appendNote(desc, fmt.Sprintf("default: %v", o.Default))
	}
	if o.Required {
		desc = appendNote(desc, "required")
	}
	return desc
}

func appendNote(desc, note string) string {
	if desc == "" {
		return "(" + note + ")"
	}
	return desc + " (" + note + ")"
}

// writeRows prints name/description pairs with the descriptions
// aligned to the widest name.
func writeRows(b *strings.Builder, rows [][2]string) {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		if r[1] == "" {
			fmt.Fprintf(b, "  %s\n", r[0])
			continue
		}
		fmt.Fprintf(b, "  %-*s  %s\n", width, r[0], r[1])
	}
}
