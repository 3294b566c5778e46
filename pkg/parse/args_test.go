// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gavelrun/gavel/pkg/schema"
	"github.com/gavelrun/gavel/pkg/token"
)

func argDefs(specs ...string) []schema.Arg {
	defs := make([]schema.Arg, 0, len(specs))
	for _, s := range specs {
		d, err := schema.ParseArgSpec(s)
		if err != nil {
			panic(err)
		}
		defs = append(defs, d)
	}
	return defs
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name          string
		specs         []string
		argv          []string
		want          map[string]any
		wantRemaining int
		wantErrs      int
	}{
		{
			name:  "one token per definition in order",
			specs: []string{"<src>", "<dst>"},
			argv:  []string{"a.txt", "b.txt"},
			want:  map[string]any{"src": "a.txt", "dst": "b.txt"},
		},
		{
			name:  "trailing variadic consumes the rest",
			specs: []string{"<input>", "<files...>"},
			argv:  []string{"main.go", "a.go", "b.go"},
			want:  map[string]any{"input": "main.go", "files": []any{"a.go", "b.go"}},
		},
		{
			name:  "variadic with nothing left is empty",
			specs: []string{"<input>", "[files...]"},
			argv:  []string{"main.go"},
			want:  map[string]any{"input": "main.go", "files": []any{}},
		},
		{
			name:     "missing required argument",
			specs:    []string{"<input>"},
			argv:     nil,
			want:     map[string]any{},
			wantErrs: 1,
		},
		{
			name:  "optional missing is simply absent",
			specs: []string{"[output]"},
			argv:  nil,
			want:  map[string]any{},
		},
		{
			name:          "extra tokens land in remaining",
			specs:         []string{"<input>"},
			argv:          []string{"a", "b", "c"},
			want:          map[string]any{"input": "a"},
			wantRemaining: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Args(token.Tokenize(tt.argv), argDefs(tt.specs...))
			if len(res.Errors) != tt.wantErrs {
				t.Fatalf("Args(%v) errors = %v, want %d", tt.argv, res.Errors, tt.wantErrs)
			}
			if diff := cmp.Diff(tt.want, res.Values); diff != "" {
				t.Errorf("Args(%v) values mismatch (-want +got):\n%s", tt.argv, diff)
			}
			if len(res.Remaining) != tt.wantRemaining {
				t.Errorf("Args(%v) remaining = %v, want %d tokens", tt.argv, res.Remaining, tt.wantRemaining)
			}
		})
	}
}

func TestArgsDefaultAppliesToRequired(t *testing.T) {
	defs := []schema.Arg{{Name: "env", Type: schema.String, Required: true, Default: "production"}}
	res := Args(nil, defs)
	if len(res.Errors) != 0 {
		t.Fatalf("errors = %v, want none (default satisfies required)", res.Errors)
	}
	if got := res.Values["env"]; got != "production" {
		t.Errorf("env = %v, want default %q", got, "production")
	}
}

func TestArgsEmptyVariadicGetsDefault(t *testing.T) {
	defs := []schema.Arg{{Name: "files", Type: schema.String, Variadic: true, Default: []any{"all"}}}
	res := Args(nil, defs)
	want := []any{"all"}
	if diff := cmp.Diff(want, res.Values["files"]); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestArgsCoercionBestEffort(t *testing.T) {
	defs := []schema.Arg{{Name: "count", Type: schema.Number, Required: true}}
	res := Args(token.Tokenize([]string{"abc"}), defs)
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "count") {
		t.Fatalf("errors = %v, want one naming the argument", res.Errors)
	}
	// The raw string survives the failed coercion.
	if got := res.Values["count"]; got != "abc" {
		t.Errorf("count = %v, want raw %q", got, "abc")
	}
}

func TestArgsValidate(t *testing.T) {
	defs := []schema.Arg{{
		Name: "name",
		Type: schema.String,
		Validate: func(v any) error {
			if s, ok := v.(string); ok && strings.Contains(s, "/") {
				return errors.New("must not contain a slash")
			}
			return nil
		},
	}}

	res := Args(token.Tokenize([]string{"a/b"}), defs)
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one validate error", res.Errors)
	}
	if got := res.Values["name"]; got != "a/b" {
		t.Errorf("name = %v, want value kept despite failed validation", got)
	}
}

func TestArgsNumberCoercion(t *testing.T) {
	defs := []schema.Arg{{Name: "count", Type: schema.Number}}
	res := Args(token.Tokenize([]string{"3"}), defs)
	if got := res.Values["count"]; got != float64(3) {
		t.Errorf("count = %v (%T), want float64(3)", got, got)
	}
}
