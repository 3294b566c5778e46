// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel is the plugin micro-kernel: a name-keyed registry
// with a dependency-ordered init lifecycle and a sequential event bus.
//
// Everything here is single-goroutine. Registration, event emission
// and lifecycle calls run on the caller's goroutine in a deterministic
// order; the kernel takes no locks and is not safe for concurrent
// mutation.
package kernel

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
)

// Plugin is one registerable unit. Name is the unique registry key.
// Install runs synchronously during Register and is the plugin's
// window to subscribe event handlers; the remaining hooks are optional.
type Plugin struct {
	Name    string
	Version string
	// Dependencies names other plugins whose OnInit must run first.
	Dependencies []string
	Install      func(k *Kernel) error
	OnInit       func(ctx context.Context, sc *SharedContext) error
	OnDestroy    func() error
	OnError      func(err error)
}

// SharedContext is the open key-value store plugins communicate
// through after init. Keys are write-once per key by convention; the
// kernel does not enforce it.
type SharedContext struct {
	values map[string]any
}

// Set stores a value under key, overwriting any previous value.
func (sc *SharedContext) Set(key string, v any) {
	sc.values[key] = v
}

// Get returns the value stored under key.
func (sc *SharedContext) Get(key string) (any, bool) {
	v, ok := sc.values[key]
	return v, ok
}

// Kernel owns the plugin registry, the event bus and the shared
// context. One kernel per application run.
type Kernel struct {
	plugins     map[string]*Plugin
	order       []string
	subs        map[string][]subscription
	nextSubID   int
	shared      *SharedContext
	initialized bool
	log         zerolog.Logger
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger enables debug tracing of registration, lifecycle and
// event dispatch.
func WithLogger(log zerolog.Logger) Option {
	return func(k *Kernel) { k.log = log }
}

// New creates an empty kernel. Logging is off unless WithLogger is
// given.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		plugins: make(map[string]*Plugin),
		subs:    make(map[string][]subscription),
		shared:  &SharedContext{values: make(map[string]any)},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// SharedContext returns the store plugins read after OnInit.
func (k *Kernel) SharedContext() *SharedContext { return k.shared }

// Plugins returns the registered plugin names in registration order.
func (k *Kernel) Plugins() []string {
	names := make([]string, len(k.order))
	copy(names, k.order)
	return names
}

// Register validates and installs a plugin. Install runs synchronously
// so the plugin can subscribe handlers before anything is emitted. On
// an Install error the plugin's OnError hook is invoked, the plugin is
// not stored, and the error propagates.
func (k *Kernel) Register(p Plugin) error {
	if p.Name == "" {
		return fmt.Errorf("register: plugin has no name")
	}
	if _, exists := k.plugins[p.Name]; exists {
		return fmt.Errorf("register %q: %w", p.Name, ErrDuplicatePlugin)
	}
	if p.Version != "" {
		if _, err := semver.NewVersion(p.Version); err != nil {
			return fmt.Errorf("register %q: invalid version %q: %w", p.Name, p.Version, err)
		}
	}
	if p.Install != nil {
		if err := p.Install(k); err != nil {
			if p.OnError != nil {
				p.OnError(err)
			}
			return fmt.Errorf("install %q: %w", p.Name, err)
		}
	}
	k.plugins[p.Name] = &p
	k.order = append(k.order, p.Name)
	k.log.Debug().Str("plugin", p.Name).Str("version", p.Version).Msg("plugin registered")
	return nil
}

// Unregister destroys and removes a plugin. Unknown names are a no-op.
// An OnDestroy error is reported to the plugin's OnError hook and
// swallowed; it never propagates.
func (k *Kernel) Unregister(name string) {
	p, ok := k.plugins[name]
	if !ok {
		return
	}
	if p.OnDestroy != nil {
		if err := p.OnDestroy(); err != nil {
			if p.OnError != nil {
				p.OnError(err)
			}
			k.log.Debug().Str("plugin", name).Err(err).Msg("destroy hook failed")
		}
	}
	delete(k.plugins, name)
	for i, n := range k.order {
		if n == name {
			k.order = append(k.order[:i], k.order[i+1:]...)
			break
		}
	}
	k.log.Debug().Str("plugin", name).Msg("plugin unregistered")
}

// Initialize resolves the dependency order and runs every plugin's
// OnInit, dependencies first. A second call is a no-op. The first
// OnInit error aborts the pass and leaves the kernel uninitialized.
func (k *Kernel) Initialize(ctx context.Context) error {
	if k.initialized {
		return nil
	}
	sorted, err := k.initOrder()
	if err != nil {
		return err
	}
	for _, name := range sorted {
		p := k.plugins[name]
		if p.OnInit == nil {
			continue
		}
		if err := p.OnInit(ctx, k.shared); err != nil {
			return fmt.Errorf("init %q: %w", name, err)
		}
		k.log.Debug().Str("plugin", name).Msg("plugin initialized")
	}
	k.initialized = true
	return nil
}

// Shutdown unregisters every plugin in reverse registration order.
func (k *Kernel) Shutdown() {
	for i := len(k.order) - 1; i >= 0; i-- {
		k.Unregister(k.order[i])
	}
	k.initialized = false
}

// initOrder runs a depth-first topological sort over the declared
// dependencies: visiting marks the active DFS path, so revisiting a
// visiting node identifies the cycle.
func (k *Kernel) initOrder() ([]string, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(k.plugins))
	sorted := make([]string, 0, len(k.plugins))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, n := range path {
				if n == name {
					start = i
					break
				}
			}
			cycle := append([]string{}, path[start:]...)
			return &CycleError{Path: append(cycle, name)}
		}
		state[name] = visiting
		path = append(path, name)
		for _, dep := range k.plugins[name].Dependencies {
			if _, ok := k.plugins[dep]; !ok {
				return &MissingDependencyError{Plugin: name, Dependency: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = visited
		sorted = append(sorted, name)
		return nil
	}

	for _, name := range k.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
