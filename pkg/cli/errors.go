// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"
)

// UsageError aggregates every parse-phase failure of one invocation.
// The individual lines are printed before the run is abandoned; the
// aggregate is what propagates.
type UsageError struct {
	Errors []string
}

func (e *UsageError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("%d usage errors", len(e.Errors))
}

// UnknownCommandError reports an argument that should have named a
// subcommand but matched nothing. Suggestion is empty when no
// registered name scored close enough.
type UnknownCommandError struct {
	// Name is the unresolved input.
	Name string
	// Path is the command path the router stopped at.
	Path []string
	// Suggestion is the closest registered name, if any.
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("unknown command %q for %q", e.Name, strings.Join(e.Path, " "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// ExitError carries a declared process exit code out of an action or
// middleware. Without one the engine exits 1 on failure.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err with a process exit code.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}
