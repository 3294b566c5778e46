// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package command models the command tree: named nodes carrying
// argument/option definitions, aliases, middleware and an action, plus
// the router that walks a token sequence to the deepest matching node.
package command

import (
	"context"
	"fmt"

	"github.com/gavelrun/gavel/pkg/schema"
)

// App is the application driving an invocation. The concrete type
// lives a layer up; actions and middleware reach it through the
// invocation to emit events or read app identity.
type App interface {
	Name() string
	Version() string
	Emit(ctx context.Context, event string, data any) error
}

// Invocation is the execution context handed to middleware and
// actions: the parsed values, the raw argv, the resolved command and
// the owning application. One per run, never reused.
type Invocation struct {
	// ID uniquely identifies this invocation, for log correlation.
	ID string
	// Argv is the raw argument vector the run started from.
	Argv []string
	// Args maps argument names to coerced values.
	Args map[string]any
	// Options maps option names to coerced values.
	Options map[string]any
	// Command is the resolved command being executed.
	Command *Command
	// App is the owning application.
	App App
}

// ActionFunc is a command's handler.
type ActionFunc func(ctx context.Context, inv *Invocation) error

// Middleware wraps an action. Not calling next stops the rest of the
// chain and the action itself.
type Middleware func(ctx context.Context, inv *Invocation, next func() error) error

// Command is one node of the tree. Built by the fluent methods at
// setup time; structurally immutable once a run starts. The parent
// pointer is a non-owning back-reference used for path display only.
type Command struct {
	name        string
	description string
	aliases     []string
	parent      *Command
	children    map[string]*Command
	order       []*Command
	args        []schema.Arg
	opts        []schema.Opt
	middleware  []Middleware
	action      ActionFunc
	hidden      bool
}

// New creates a root command.
func New(name, description string) *Command {
	return &Command{
		name:        name,
		description: description,
		children:    make(map[string]*Command),
	}
}

// Command adds a subcommand and returns it, so setup code descends
// into the child. Registering the same name twice panics: that is a
// setup bug, not a runtime condition.
func (c *Command) Command(name, description string) *Command {
	if _, exists := c.children[name]; exists {
		panic(fmt.Sprintf("command: duplicate subcommand %q under %q", name, c.name))
	}
	child := New(name, description)
	child.parent = c
	c.children[name] = child
	c.order = append(c.order, child)
	return child
}

// ArgOption configures an argument definition beyond its spec string.
type ArgOption func(*schema.Arg)

// ArgDefault sets the value used when the argument is not supplied.
func ArgDefault(v any) ArgOption { return func(a *schema.Arg) { a.Default = v } }

// ArgValidate attaches a validation function run after coercion.
func ArgValidate(fn schema.ValidateFunc) ArgOption { return func(a *schema.Arg) { a.Validate = fn } }

// ArgCoerce replaces the type-derived coercion with a custom one.
func ArgCoerce(fn schema.CoerceFunc) ArgOption { return func(a *schema.Arg) { a.Coerce = fn } }

// ArgType overrides the value type (spec strings default to string).
func ArgType(t schema.ValueType) ArgOption { return func(a *schema.Arg) { a.Type = t } }

// Argument declares a positional argument from a spec string such as
// "<input>", "[output]" or "<files...>". A malformed spec or a
// variadic argument that is not last panics.
func (c *Command) Argument(spec, description string, opts ...ArgOption) *Command {
	def, err := schema.ParseArgSpec(spec)
	if err != nil {
		panic(fmt.Sprintf("command %q: %v", c.name, err))
	}
	def.Description = description
	for _, opt := range opts {
		opt(&def)
	}
	c.args = append(c.args, def)
	if err := schema.CheckArgs(c.args); err != nil {
		panic(fmt.Sprintf("command %q: %v", c.name, err))
	}
	return c
}

// OptOption configures an option definition beyond its spec string.
type OptOption func(*schema.Opt)

// OptDefault sets the value used when the option is not supplied.
func OptDefault(v any) OptOption { return func(o *schema.Opt) { o.Default = v } }

// OptRequired marks the option as mandatory.
func OptRequired() OptOption { return func(o *schema.Opt) { o.Required = true } }

// OptChoices restricts the accepted values.
func OptChoices(choices ...string) OptOption { return func(o *schema.Opt) { o.Choices = choices } }

// OptNegatable registers a "no-<name>" counterpart for a boolean.
func OptNegatable() OptOption { return func(o *schema.Opt) { o.Negatable = true } }

// OptValidate attaches a validation function run after coercion.
func OptValidate(fn schema.ValidateFunc) OptOption { return func(o *schema.Opt) { o.Validate = fn } }

// OptCoerce replaces the type-derived coercion with a custom one.
func OptCoerce(fn schema.CoerceFunc) OptOption { return func(o *schema.Opt) { o.Coerce = fn } }

// Option declares an option from a spec string such as
// "-p, --port <number>" or "--verbose". Duplicate names and malformed
// specs panic.
func (c *Command) Option(spec, description string, opts ...OptOption) *Command {
	def, err := schema.ParseOptSpec(spec)
	if err != nil {
		panic(fmt.Sprintf("command %q: %v", c.name, err))
	}
	def.Description = description
	for _, opt := range opts {
		opt(&def)
	}
	for _, existing := range c.opts {
		if existing.Name == def.Name {
			panic(fmt.Sprintf("command %q: duplicate option %q", c.name, def.Name))
		}
	}
	c.opts = append(c.opts, def)
	return c
}

// Alias registers alternative names for this command.
func (c *Command) Alias(names ...string) *Command {
	c.aliases = append(c.aliases, names...)
	return c
}

// Use appends a middleware to the chain. Order of Use calls is the
// order of execution.
func (c *Command) Use(mw Middleware) *Command {
	c.middleware = append(c.middleware, mw)
	return c
}

// Action sets the command's handler.
func (c *Command) Action(fn ActionFunc) *Command {
	c.action = fn
	return c
}

// Hidden excludes the command from help listings. It remains routable.
func (c *Command) Hidden() *Command {
	c.hidden = true
	return c
}

// ChildByNameOrAlias resolves a child. Direct name matches win over
// alias collisions, so an alias can never shadow another child's name.
func (c *Command) ChildByNameOrAlias(name string) *Command {
	if child, ok := c.children[name]; ok {
		return child
	}
	for _, child := range c.order {
		for _, a := range child.aliases {
			if a == name {
				return child
			}
		}
	}
	return nil
}

// Path returns the names from the root down to this command.
func (c *Command) Path() []string {
	if c.parent == nil {
		return []string{c.name}
	}
	return append(c.parent.Path(), c.name)
}

// Name returns the command's name.
func (c *Command) Name() string { return c.name }

// Description returns the one-line description.
func (c *Command) Description() string { return c.description }

// Aliases returns the registered aliases.
func (c *Command) Aliases() []string { return c.aliases }

// Parent returns the parent command, nil at the root.
func (c *Command) Parent() *Command { return c.parent }

// Children returns the subcommands in registration order.
func (c *Command) Children() []*Command { return c.order }

// Args returns the positional definitions in declaration order.
func (c *Command) Args() []schema.Arg { return c.args }

// Opts returns the option definitions in declaration order.
func (c *Command) Opts() []schema.Opt { return c.opts }

// Middleware returns the chain in Use order.
func (c *Command) Middleware() []Middleware { return c.middleware }

// ActionFn returns the handler, nil when the command has none.
func (c *Command) ActionFn() ActionFunc { return c.action }

// IsHidden reports whether the command is excluded from help.
func (c *Command) IsHidden() bool { return c.hidden }
