// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicatePlugin is returned by Register when a plugin with the
// same name already exists.
var ErrDuplicatePlugin = errors.New("plugin already registered")

// MissingDependencyError reports a declared dependency that no
// registered plugin satisfies.
type MissingDependencyError struct {
	// Plugin is the name of the plugin that declared the dependency.
	Plugin string
	// Dependency is the name that could not be resolved.
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("plugin %q depends on %q, which is not registered", e.Plugin, e.Dependency)
}

// CycleError reports a circular plugin dependency. Path lists the
// plugin names along the cycle, ending with the name that closed it.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular plugin dependency: %s", strings.Join(e.Path, " -> "))
}
