// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"github.com/gavelrun/gavel/pkg/command"
)

// Event names emitted by the engine. The kernel's bus stays
// payload-agnostic; these constants plus the payload types below form
// the closed set of shapes at the engine boundary.
const (
	// EventCommandBefore fires after parsing succeeds, before
	// middleware and action. Payload: CommandEvent.
	EventCommandBefore = "command:before"
	// EventCommandAfter fires after the action returns without error.
	// Payload: CommandEvent.
	EventCommandAfter = "command:after"
	// EventHelp fires when usage text is about to be printed.
	// Payload: HelpEvent.
	EventHelp = "help"
	// EventVersion fires when the version is about to be printed.
	// Payload: VersionEvent.
	EventVersion = "version"
	// EventError fires on any run failure before the message is
	// printed. Payload: ErrorEvent.
	EventError = "error"
)

// CommandEvent is the payload of command:before and command:after.
type CommandEvent struct {
	Command    *command.Command
	Invocation *command.Invocation
}

// ErrorEvent is the payload of the error event. Invocation is nil when
// the failure happened before an execution context existed.
type ErrorEvent struct {
	Err        error
	Invocation *command.Invocation
}

// HelpEvent is the payload of the help event.
type HelpEvent struct {
	Command *command.Command
}

// VersionEvent is the payload of the version event.
type VersionEvent struct {
	Version string
}
