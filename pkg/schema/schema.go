// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema holds the declared shape of a command's inputs: the
// positional argument and option definitions, the spec-string syntax
// used to declare them ("-p, --port <number>", "<files...>"), and the
// value coercion rules shared by the option and argument parsers.
package schema

import (
	"fmt"
	"strings"
)

// ValueType is the declared type of an option or argument value.
type ValueType string

const (
	String ValueType = "string"
	Number ValueType = "number"
	Bool   ValueType = "boolean"
	Array  ValueType = "array"
	Object ValueType = "object"
)

// ValidateFunc checks a coerced value and returns a reason when it is
// not acceptable.
type ValidateFunc func(v any) error

// CoerceFunc converts a raw string into a typed value. When set on a
// definition it takes precedence over the declared type's rule.
type CoerceFunc func(raw string) (any, error)

// Arg is a positional argument definition.
type Arg struct {
	Name        string
	Description string
	Type        ValueType
	Required    bool
	// Variadic arguments greedily consume every remaining token. At
	// most one definition per command may be variadic and it must be
	// declared last.
	Variadic bool
	Default  any
	Validate ValidateFunc
	Coerce   CoerceFunc
}

// Opt is an option (flag) definition.
type Opt struct {
	Name        string
	Alias       string // single character, "" when absent
	Description string
	Type        ValueType
	// Required options without a supplied value or default produce a
	// parse error.
	Required bool
	Default  any
	Choices  []string
	Validate ValidateFunc
	Coerce   CoerceFunc
	// Negatable boolean options also answer to "no-<name>", which
	// forces the value to false.
	Negatable bool
}

// IsBool reports whether the option is boolean-typed. Options with no
// declared type default to boolean presence flags.
func (o Opt) IsBool() bool {
	return o.Type == Bool || o.Type == ""
}

// ParseArgSpec parses a positional argument declaration:
//
//	"<input>"     required
//	"[output]"    optional
//	"<files...>"  required variadic
//	"[files...]"  optional variadic
//
// The declared type defaults to String; callers adjust it through
// definition options.
func ParseArgSpec(spec string) (Arg, error) {
	s := strings.TrimSpace(spec)
	var arg Arg
	switch {
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		arg.Required = true
		arg.Name = s[1 : len(s)-1]
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		arg.Name = s[1 : len(s)-1]
	default:
		return Arg{}, fmt.Errorf("invalid argument spec %q: expected <name> or [name]", spec)
	}
	if strings.HasSuffix(arg.Name, "...") {
		arg.Variadic = true
		arg.Name = strings.TrimSuffix(arg.Name, "...")
	}
	if arg.Name == "" {
		return Arg{}, fmt.Errorf("invalid argument spec %q: empty name", spec)
	}
	arg.Type = String
	return arg, nil
}

// ParseOptSpec parses an option declaration:
//
//	"-p, --port <number>"
//	"--verbose"
//	"-o, --output <string>"
//	"--tags <array>"
//
// The short alias is optional. Without a value placeholder the option
// is a boolean presence flag; with one, the placeholder names the
// value type (string, number, boolean, array, object; anything else
// is treated as string).
func ParseOptSpec(spec string) (Opt, error) {
	var opt Opt
	rest := strings.TrimSpace(spec)

	// Optional "-x, " prefix.
	if strings.HasPrefix(rest, "-") && !strings.HasPrefix(rest, "--") {
		comma := strings.Index(rest, ",")
		if comma == -1 {
			return Opt{}, fmt.Errorf("invalid option spec %q: short alias without long name", spec)
		}
		alias := strings.TrimSpace(rest[:comma])
		if len(alias) != 2 {
			return Opt{}, fmt.Errorf("invalid option spec %q: alias must be a single character", spec)
		}
		opt.Alias = alias[1:]
		rest = strings.TrimSpace(rest[comma+1:])
	}

	if !strings.HasPrefix(rest, "--") {
		return Opt{}, fmt.Errorf("invalid option spec %q: missing long name", spec)
	}
	rest = rest[2:]

	name := rest
	hint := ""
	if sp := strings.IndexAny(rest, " \t"); sp != -1 {
		name = rest[:sp]
		hint = strings.TrimSpace(rest[sp+1:])
	}
	if name == "" {
		return Opt{}, fmt.Errorf("invalid option spec %q: empty name", spec)
	}
	opt.Name = name

	switch {
	case hint == "":
		opt.Type = Bool
	case strings.HasPrefix(hint, "<") && strings.HasSuffix(hint, ">"):
		opt.Type = typeFromHint(hint[1 : len(hint)-1])
	case strings.HasPrefix(hint, "[") && strings.HasSuffix(hint, "]"):
		opt.Type = typeFromHint(hint[1 : len(hint)-1])
	default:
		return Opt{}, fmt.Errorf("invalid option spec %q: malformed value placeholder %q", spec, hint)
	}
	return opt, nil
}

func typeFromHint(hint string) ValueType {
	switch strings.ToLower(strings.TrimSuffix(hint, "...")) {
	case "number", "int", "float":
		return Number
	case "bool", "boolean":
		return Bool
	case "array":
		return Array
	case "object":
		return Object
	default:
		return String
	}
}

// CheckArgs validates a positional definition list: only the last
// definition may be variadic.
func CheckArgs(defs []Arg) error {
	for i, d := range defs {
		if d.Variadic && i != len(defs)-1 {
			return fmt.Errorf("variadic argument %q must be the last argument", d.Name)
		}
	}
	return nil
}
