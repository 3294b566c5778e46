// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/gavelrun/gavel/pkg/command"
	"github.com/gavelrun/gavel/pkg/parse"
	"github.com/gavelrun/gavel/pkg/suggest"
	"github.com/gavelrun/gavel/pkg/token"
)

// state tracks one invocation through the run pipeline, for tracing.
type state int

const (
	stateIdle state = iota
	stateTokenized
	stateRouted
	stateParsed
	stateValidated
	stateExecuting
	stateCompleted
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateTokenized:
		return "tokenized"
	case stateRouted:
		return "routed"
	case stateParsed:
		return "parsed"
	case stateValidated:
		return "validated"
	case stateExecuting:
		return "executing"
	case stateCompleted:
		return "completed"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var errPrefix = color.New(color.FgRed, color.Bold).SprintFunc()

// RunArgs runs the application against os.Args[1:].
func (a *App) RunArgs(ctx context.Context) error {
	return a.Run(ctx, os.Args[1:])
}

// Run drives one invocation: tokenize, route, parse, then the event /
// middleware / action sequence. The context is threaded through every
// plugin hook, event handler, middleware and action; the engine itself
// never imposes a deadline.
//
// On failure the error event fires, the message is printed to the
// error output and the process exits with the error's declared code
// (default 1). When exit-on-error is disabled the error is returned to
// the caller instead.
func (a *App) Run(ctx context.Context, argv []string) error {
	inv, err := a.run(ctx, argv)
	if err == nil {
		return nil
	}
	a.setState(stateFailed)

	if emitErr := a.kernel.Emit(ctx, EventError, ErrorEvent{Err: err, Invocation: inv}); emitErr != nil {
		a.log.Debug().Err(emitErr).Msg("error handler failed")
	}
	fmt.Fprintf(a.errOut, "%s %s\n", errPrefix("Error:"), err.Error())

	code := 1
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		code = exitErr.Code
	}
	if a.exitOnError {
		a.exit(code)
		return nil
	}
	return err
}

func (a *App) run(ctx context.Context, argv []string) (*command.Invocation, error) {
	if err := a.kernel.Initialize(ctx); err != nil {
		return nil, err
	}

	a.setState(stateIdle)
	tokens := token.Tokenize(argv)
	a.setState(stateTokenized)

	if len(tokens) == 0 {
		return nil, a.printHelp(ctx, a.root)
	}
	if cmd, ok := a.helpRequest(tokens); ok {
		return nil, a.printHelp(ctx, cmd)
	}
	if a.version != "" && versionRequested(tokens) {
		if err := a.kernel.Emit(ctx, EventVersion, VersionEvent{Version: a.version}); err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out, "%s %s\n", a.Name(), a.version)
		a.setState(stateCompleted)
		return nil, nil
	}

	cmd, rest := command.Route(a.root, tokens)
	a.setState(stateRouted)
	a.log.Debug().Strs("path", cmd.Path()).Msg("routed")

	// A branch command with no action cannot consume positionals: its
	// first leftover argument was meant as a subcommand name.
	if cmd.ActionFn() == nil && len(cmd.Children()) > 0 {
		if name, ok := firstArgument(rest); ok {
			sugg, _ := suggest.Best(name, suggest.Candidates(a.root))
			return nil, &UnknownCommandError{Name: name, Path: cmd.Path(), Suggestion: sugg}
		}
		return nil, a.printHelp(ctx, cmd)
	}

	optRes := parse.Options(rest, cmd.Opts(), true)
	argRes := parse.Args(optRes.Remaining, cmd.Args())
	a.setState(stateParsed)

	parseErrs := append(append([]string{}, optRes.Errors...), argRes.Errors...)
	if len(parseErrs) > 0 {
		for _, line := range parseErrs {
			fmt.Fprintln(a.errOut, line)
		}
		return nil, &UsageError{Errors: parseErrs}
	}
	a.setState(stateValidated)

	inv := &command.Invocation{
		ID:      uuid.NewString(),
		Argv:    argv,
		Args:    argRes.Values,
		Options: optRes.Values,
		Command: cmd,
		App:     a,
	}
	a.log.Debug().Str("invocation", inv.ID).Strs("path", cmd.Path()).Msg("executing")

	if err := a.kernel.Emit(ctx, EventCommandBefore, CommandEvent{Command: cmd, Invocation: inv}); err != nil {
		return inv, err
	}
	a.setState(stateExecuting)

	if err := a.execute(ctx, cmd, inv); err != nil {
		return inv, err
	}

	if err := a.kernel.Emit(ctx, EventCommandAfter, CommandEvent{Command: cmd, Invocation: inv}); err != nil {
		return inv, err
	}
	a.setState(stateCompleted)
	return inv, nil
}

// execute runs the middleware chain, then the action. The chain is
// continuation-passing: each middleware gets a next closure, and one
// that returns without calling next stops everything after it,
// including the action.
func (a *App) execute(ctx context.Context, cmd *command.Command, inv *command.Invocation) error {
	chain := cmd.Middleware()
	action := cmd.ActionFn()

	var advance func(i int) error
	advance = func(i int) error {
		if i < len(chain) {
			return chain[i](ctx, inv, func() error { return advance(i + 1) })
		}
		if action != nil {
			return action(ctx, inv)
		}
		return nil
	}
	return advance(0)
}

// helpRequest reports whether the tokens ask for help (--help / -h
// before the separator, or a leading "help" argument) and resolves the
// command the help is for.
func (a *App) helpRequest(tokens []token.Token) (*command.Command, bool) {
	if tokens[0].Type == token.Argument && tokens[0].Value == "help" {
		cmd, _ := command.Route(a.root, tokens[1:])
		return cmd, true
	}
	for _, tok := range tokens {
		if tok.Type == token.Separator {
			break
		}
		if (tok.Type == token.Option && tok.Value == "help") ||
			(tok.Type == token.Flag && tok.Value == "h") {
			cmd, _ := command.Route(a.root, tokens)
			return cmd, true
		}
	}
	return nil, false
}

// versionRequested reports a --version or -V before the separator.
func versionRequested(tokens []token.Token) bool {
	for _, tok := range tokens {
		if tok.Type == token.Separator {
			break
		}
		if (tok.Type == token.Option && tok.Value == "version") ||
			(tok.Type == token.Flag && tok.Value == "V") {
			return true
		}
	}
	return false
}

// firstArgument finds the first positional token, skipping options and
// their paired values, stopping at the separator.
func firstArgument(tokens []token.Token) (string, bool) {
	for i := 0; i < len(tokens); i++ {
		switch tokens[i].Type {
		case token.Separator:
			return "", false
		case token.Option, token.Flag:
			if i+1 < len(tokens) && tokens[i+1].Type == token.Value {
				i++
			}
		case token.Argument:
			return tokens[i].Value, true
		}
	}
	return "", false
}

func (a *App) printHelp(ctx context.Context, cmd *command.Command) error {
	if cmd == nil {
		cmd = a.root
	}
	if err := a.kernel.Emit(ctx, EventHelp, HelpEvent{Command: cmd}); err != nil {
		return err
	}
	fmt.Fprint(a.out, Usage(cmd))
	a.setState(stateCompleted)
	return nil
}

func (a *App) setState(s state) {
	a.log.Debug().Stringer("state", s).Msg("state")
}
