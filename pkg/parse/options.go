// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse consumes a token sequence against declared option and
// argument definitions, producing typed value maps plus accumulated
// error strings. Parse errors never abort the pass: the caller decides
// what to do with the full list.
package parse

import (
	"fmt"

	"github.com/gavelrun/gavel/pkg/schema"
	"github.com/gavelrun/gavel/pkg/token"
)

// OptionResult is the outcome of one option-parsing pass.
type OptionResult struct {
	// Values maps option names to coerced values. Negatable shadow
	// names ("no-color") never appear here; they write through to the
	// base name.
	Values map[string]any
	// Remaining holds the tokens not consumed as options or option
	// values, in original order. These feed the argument parser.
	Remaining []token.Token
	// Errors accumulates parse failures as printable strings.
	Errors []string
	// Unknown lists undefined option names seen in non-strict mode.
	Unknown []string
}

// optionDef is an Opt plus shadow bookkeeping: negatable options
// register a second entry under "no-<name>" that writes the inverted
// value to the base name.
type optionDef struct {
	schema.Opt
	negated bool
}

// Options walks tokens left to right and matches Option/Flag tokens
// against defs. Non-option tokens fall through to Remaining. In
// strict mode an undefined option is an error; otherwise it is
// recorded in Unknown.
func Options(tokens []token.Token, defs []schema.Opt, strict bool) OptionResult {
	res := OptionResult{Values: make(map[string]any)}

	byName := make(map[string]optionDef, len(defs)*2)
	byAlias := make(map[string]optionDef, len(defs))
	for _, d := range defs {
		byName[d.Name] = optionDef{Opt: d}
		if d.Alias != "" {
			byAlias[d.Alias] = optionDef{Opt: d}
		}
		if d.Negatable {
			byName["no-"+d.Name] = optionDef{Opt: d, negated: true}
		}
	}

	processed := make(map[string]bool, len(defs))

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok.Type == token.Separator {
			continue
		}
		if !tok.IsOption() {
			res.Remaining = append(res.Remaining, tok)
			continue
		}

		name := tok.Value

		// Multi-character short flags are either an attached value
		// ("-p3000") or a boolean cluster ("-xyz").
		if tok.Type == token.Flag && len(name) > 1 {
			first := string(name[0])
			if def, ok := byAlias[first]; ok && !def.IsBool() {
				if processed[def.Name] {
					continue
				}
				processed[def.Name] = true
				assignOption(&res, def, name[1:])
				continue
			}
			// Boolean cluster: set every matching boolean flag true.
			// Characters that match nothing, or match a non-boolean
			// definition, are silently ignored.
			for _, c := range name {
				if def, ok := byAlias[string(c)]; ok && def.IsBool() {
					if processed[def.Name] {
						continue
					}
					processed[def.Name] = true
					res.Values[def.Name] = true
				}
			}
			continue
		}

		var def optionDef
		var ok bool
		if tok.Type == token.Flag {
			def, ok = byAlias[name]
		} else {
			def, ok = byName[name]
		}
		if !ok {
			if strict {
				res.Errors = append(res.Errors, fmt.Sprintf("unknown option %q", tok.Raw))
			} else {
				res.Unknown = append(res.Unknown, name)
			}
			// An "=" value bound to an unknown option stays with it
			// rather than turning into a positional.
			if i+1 < len(tokens) && tokens[i+1].Type == token.Value {
				i++
			}
			continue
		}

		// One write per canonical name per pass. This is what keeps a
		// "--color --no-color" pair from flip-flopping: the first
		// occurrence wins. A paired "=" value still gets consumed so
		// it cannot leak into the positionals.
		if processed[def.Name] {
			if i+1 < len(tokens) && tokens[i+1].Type == token.Value {
				i++
			}
			continue
		}
		processed[def.Name] = true

		if def.IsBool() {
			v := true
			if i+1 < len(tokens) && tokens[i+1].Type == token.Value {
				v = schema.ParseBoolValue(tokens[i+1].Value)
				i++
			}
			if def.negated {
				v = !v
			}
			res.Values[def.Name] = v
			validateOption(&res, def, res.Values[def.Name])
			continue
		}

		// Non-boolean: consume the following Value or Argument token,
		// fall back to the default, else error.
		switch {
		case i+1 < len(tokens) && (tokens[i+1].Type == token.Value || tokens[i+1].Type == token.Argument):
			assignOption(&res, def, tokens[i+1].Value)
			i++
		case def.Default != nil:
			assignOption(&res, def, schema.Stringify(def.Default))
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("option %q requires a value", "--"+def.Name))
		}
	}

	// Fill in defaults for definitions never seen on the command
	// line. Shadow entries are skipped: "no-color" defaulting would
	// double-write "color".
	for _, d := range defs {
		if _, present := res.Values[d.Name]; present {
			continue
		}
		switch {
		case d.Default != nil:
			assignOption(&res, optionDef{Opt: d}, schema.Stringify(d.Default))
		case d.Required:
			res.Errors = append(res.Errors, fmt.Sprintf("missing required option %q", "--"+d.Name))
		}
	}

	return res
}

// assignOption coerces raw, records the value under the definition's
// canonical name and runs the validation checks. Coercion failure
// drops the value; validation failure keeps it.
func assignOption(res *OptionResult, def optionDef, raw string) {
	v, err := schema.CoerceValue(raw, def.Type, def.Coerce)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("option %q: %v", "--"+def.Name, err))
		return
	}
	res.Values[def.Name] = v
	validateOption(res, def, v)
}

func validateOption(res *OptionResult, def optionDef, v any) {
	if err := schema.CheckChoices("--"+def.Name, v, def.Choices); err != nil {
		res.Errors = append(res.Errors, err.Error())
	}
	if def.Validate != nil {
		if err := def.Validate(v); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("option %q: %v", "--"+def.Name, err))
		}
	}
}
