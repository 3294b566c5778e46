// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli is the top of the engine: the application object that
// ties the command tree, the parsers and the plugin kernel together
// and drives one invocation from argv to a finished action.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/gavelrun/gavel/pkg/command"
	"github.com/gavelrun/gavel/pkg/kernel"
)

// App is a command-line application. Create one with New, build the
// command tree through Root (or the Command shortcut), register
// plugins on Kernel, then call Run.
type App struct {
	root        *command.Command
	kernel      *kernel.Kernel
	version     string
	exitOnError bool
	out         io.Writer
	errOut      io.Writer
	log         zerolog.Logger

	// exit is swapped out by tests.
	exit func(code int)
}

// Option configures an App at construction time.
type Option func(*App)

// WithVersion sets the string printed for --version / -V.
func WithVersion(v string) Option {
	return func(a *App) { a.version = v }
}

// WithExitOnError controls whether a failed run terminates the
// process. It is on by default; hosting libraries turn it off to
// receive the error from Run instead.
func WithExitOnError(exit bool) Option {
	return func(a *App) { a.exitOnError = exit }
}

// WithOutput redirects normal output (help, version).
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithErrOutput redirects error output.
func WithErrOutput(w io.Writer) Option {
	return func(a *App) { a.errOut = w }
}

// WithLogger enables debug tracing of the run state machine and the
// kernel.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) { a.log = log }
}

// New creates an application with a root command of the given name.
func New(name, description string, opts ...Option) *App {
	a := &App{
		root:        command.New(name, description),
		exitOnError: true,
		out:         os.Stdout,
		errOut:      os.Stderr,
		log:         zerolog.Nop(),
		exit:        os.Exit,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.kernel = kernel.New(kernel.WithLogger(a.log))
	return a
}

// Name returns the application name.
func (a *App) Name() string { return a.root.Name() }

// Version returns the configured version string, "" when unset.
func (a *App) Version() string { return a.version }

// Root returns the root command for tree building.
func (a *App) Root() *command.Command { return a.root }

// Command adds a top-level subcommand. Shorthand for Root().Command.
func (a *App) Command(name, description string) *command.Command {
	return a.root.Command(name, description)
}

// Kernel returns the plugin kernel.
func (a *App) Kernel() *kernel.Kernel { return a.kernel }

// Emit forwards to the kernel's event bus, so actions and middleware
// can publish through the invocation's App reference.
func (a *App) Emit(ctx context.Context, event string, data any) error {
	return a.kernel.Emit(ctx, event, data)
}
