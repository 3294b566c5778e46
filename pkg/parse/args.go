// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"fmt"

	"github.com/gavelrun/gavel/pkg/schema"
	"github.com/gavelrun/gavel/pkg/token"
)

// ArgResult is the outcome of one argument-parsing pass.
type ArgResult struct {
	// Values maps argument names to coerced values. A variadic
	// argument maps to a slice.
	Values map[string]any
	// Remaining holds unconsumed tokens: more positional values were
	// supplied than definitions exist. Callers may ignore or report.
	Remaining []token.Token
	// Errors accumulates parse failures as printable strings.
	Errors []string
}

// Args consumes the option parser's leftover tokens against the
// ordered positional definitions: one token per definition, except a
// trailing variadic definition which consumes everything left. Failed
// coercion or validation appends an error but still assigns a
// best-effort value.
func Args(tokens []token.Token, defs []schema.Arg) ArgResult {
	res := ArgResult{Values: make(map[string]any)}

	idx := 0
	for _, d := range defs {
		if d.Variadic {
			items := make([]any, 0, len(tokens)-idx)
			for ; idx < len(tokens); idx++ {
				items = append(items, coerceArg(&res, d, tokens[idx].Value))
			}
			res.Values[d.Name] = items
			break
		}
		if idx >= len(tokens) {
			continue
		}
		res.Values[d.Name] = coerceArg(&res, d, tokens[idx].Value)
		idx++
	}

	// Undersupplied definitions: a default applies regardless of
	// required-ness; required without a default is an error.
	for _, d := range defs {
		if v, present := res.Values[d.Name]; present {
			if items, ok := v.([]any); !ok || len(items) > 0 {
				continue
			}
		}
		switch {
		case d.Default != nil:
			res.Values[d.Name] = d.Default
		case d.Required:
			res.Errors = append(res.Errors, fmt.Sprintf("missing required argument %q", d.Name))
		}
	}

	res.Remaining = tokens[idx:]
	return res
}

// coerceArg coerces and validates a single positional value. On
// coercion failure the raw string is kept as the best-effort value.
func coerceArg(res *ArgResult, d schema.Arg, raw string) any {
	v, err := schema.CoerceValue(raw, d.Type, d.Coerce)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("argument %q: %v", d.Name, err))
		v = raw
	}
	if d.Validate != nil {
		if err := d.Validate(v); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("argument %q: %v", d.Name, err))
		}
	}
	return v
}
