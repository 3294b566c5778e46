// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegisterDuplicate(t *testing.T) {
	k := New()
	if err := k.Register(Plugin{Name: "logger"}); err != nil {
		t.Fatalf("Register(logger) = %v, want nil", err)
	}
	err := k.Register(Plugin{Name: "logger"})
	if !errors.Is(err, ErrDuplicatePlugin) {
		t.Errorf("Register(duplicate) = %v, want ErrDuplicatePlugin", err)
	}
}

func TestRegisterInvalidVersion(t *testing.T) {
	k := New()
	if err := k.Register(Plugin{Name: "ok", Version: "1.2.3"}); err != nil {
		t.Errorf("Register(valid semver) = %v, want nil", err)
	}
	if err := k.Register(Plugin{Name: "bad", Version: "not-a-version"}); err == nil {
		t.Error("Register(invalid semver) = nil, want error")
	}
}

func TestRegisterInstallFailure(t *testing.T) {
	k := New()
	installErr := errors.New("boom")
	var reported error
	err := k.Register(Plugin{
		Name:    "broken",
		Install: func(*Kernel) error { return installErr },
		OnError: func(err error) { reported = err },
	})
	if !errors.Is(err, installErr) {
		t.Errorf("Register = %v, want wrapped install error", err)
	}
	if reported != installErr {
		t.Errorf("OnError received %v, want the install error", reported)
	}
	if len(k.Plugins()) != 0 {
		t.Errorf("Plugins() = %v, want failed plugin not stored", k.Plugins())
	}
}

func TestUnregisterSwallowsDestroyError(t *testing.T) {
	k := New()
	destroyErr := errors.New("teardown failed")
	var reported error
	if err := k.Register(Plugin{
		Name:      "flaky",
		OnDestroy: func() error { return destroyErr },
		OnError:   func(err error) { reported = err },
	}); err != nil {
		t.Fatal(err)
	}

	k.Unregister("flaky")
	if reported != destroyErr {
		t.Errorf("OnError received %v, want the destroy error", reported)
	}
	if len(k.Plugins()) != 0 {
		t.Errorf("Plugins() = %v, want empty after unregister", k.Plugins())
	}

	// Absent names are a no-op.
	k.Unregister("never-existed")
}

func TestInitializeDependencyOrder(t *testing.T) {
	k := New()
	var inits []string
	record := func(name string) func(context.Context, *SharedContext) error {
		return func(context.Context, *SharedContext) error {
			inits = append(inits, name)
			return nil
		}
	}

	// Registration order deliberately inverts the dependency order.
	if err := k.Register(Plugin{Name: "server", Dependencies: []string{"config", "logger"}, OnInit: record("server")}); err != nil {
		t.Fatal(err)
	}
	if err := k.Register(Plugin{Name: "config", Dependencies: []string{"logger"}, OnInit: record("config")}); err != nil {
		t.Fatal(err)
	}
	if err := k.Register(Plugin{Name: "logger", OnInit: record("logger")}); err != nil {
		t.Fatal(err)
	}

	if err := k.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize = %v, want nil", err)
	}
	want := []string{"logger", "config", "server"}
	if diff := cmp.Diff(want, inits); diff != "" {
		t.Errorf("init order mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	k := New()
	count := 0
	if err := k.Register(Plugin{
		Name:   "once",
		OnInit: func(context.Context, *SharedContext) error { count++; return nil },
	}); err != nil {
		t.Fatal(err)
	}

	if err := k.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := k.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("OnInit ran %d times, want exactly once", count)
	}
}

func TestInitializeMissingDependency(t *testing.T) {
	k := New()
	if err := k.Register(Plugin{Name: "app", Dependencies: []string{"ghost"}}); err != nil {
		t.Fatal(err)
	}

	err := k.Initialize(context.Background())
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("Initialize = %v, want MissingDependencyError", err)
	}
	if missing.Plugin != "app" || missing.Dependency != "ghost" {
		t.Errorf("MissingDependencyError = %+v, want plugin app, dependency ghost", missing)
	}
}

func TestInitializeCycle(t *testing.T) {
	k := New()
	if err := k.Register(Plugin{Name: "a", Dependencies: []string{"b"}}); err != nil {
		t.Fatal(err)
	}
	if err := k.Register(Plugin{Name: "b", Dependencies: []string{"a"}}); err != nil {
		t.Fatal(err)
	}

	err := k.Initialize(context.Background())
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Initialize = %v, want CycleError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "a") || !strings.Contains(msg, "b") {
		t.Errorf("cycle error %q does not name both plugins", msg)
	}
}

func TestInitializeFailureIsRetriable(t *testing.T) {
	k := New()
	fail := true
	count := 0
	if err := k.Register(Plugin{
		Name: "flaky",
		OnInit: func(context.Context, *SharedContext) error {
			count++
			if fail {
				return errors.New("not ready")
			}
			return nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	if err := k.Initialize(context.Background()); err == nil {
		t.Fatal("Initialize = nil, want error from failing OnInit")
	}
	fail = false
	if err := k.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize after failure = %v, want nil", err)
	}
	if count != 2 {
		t.Errorf("OnInit ran %d times, want 2 (failed init does not latch)", count)
	}
}

func TestSharedContext(t *testing.T) {
	k := New()
	if err := k.Register(Plugin{
		Name: "writer",
		OnInit: func(_ context.Context, sc *SharedContext) error {
			sc.Set("db", "connected")
			return nil
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := k.Register(Plugin{
		Name:         "reader",
		Dependencies: []string{"writer"},
		OnInit: func(_ context.Context, sc *SharedContext) error {
			if v, ok := sc.Get("db"); !ok || v != "connected" {
				return errors.New("db not in shared context")
			}
			return nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	if err := k.Initialize(context.Background()); err != nil {
		t.Errorf("Initialize = %v, want nil", err)
	}
}

func TestShutdownReverseOrder(t *testing.T) {
	k := New()
	var destroyed []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		if err := k.Register(Plugin{
			Name:      name,
			OnDestroy: func() error { destroyed = append(destroyed, name); return nil },
		}); err != nil {
			t.Fatal(err)
		}
	}

	k.Shutdown()
	want := []string{"third", "second", "first"}
	if diff := cmp.Diff(want, destroyed); diff != "" {
		t.Errorf("destroy order mismatch (-want +got):\n%s", diff)
	}
	if len(k.Plugins()) != 0 {
		t.Errorf("Plugins() = %v, want empty after shutdown", k.Plugins())
	}
}
