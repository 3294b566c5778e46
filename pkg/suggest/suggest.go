// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package suggest finds the nearest command name for "did you mean"
// hints on unresolved names.
package suggest

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/gavelrun/gavel/pkg/command"
)

// threshold is the minimum similarity score a candidate needs to be
// offered at all.
const threshold = 0.6

// Best scores every candidate against name and returns the top one, or
// false when nothing clears the threshold. Scoring: a prefix match is
// 1.0, a substring match 0.8, anything else the normalized Levenshtein
// similarity 1 - distance/max(len). Ties keep the earlier candidate.
func Best(name string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		s := score(name, c)
		if s > bestScore {
			best = c
			bestScore = s
		}
	}
	if bestScore < threshold {
		return "", false
	}
	return best, true
}

func score(name, candidate string) float64 {
	if name == "" || candidate == "" {
		return 0
	}
	if strings.HasPrefix(candidate, name) {
		return 1.0
	}
	if strings.Contains(candidate, name) {
		return 0.8
	}
	dist := levenshtein.Distance(name, candidate, levenshtein.NewParams())
	max := len(name)
	if len(candidate) > max {
		max = len(candidate)
	}
	return 1.0 - float64(dist)/float64(max)
}

// Candidates collects every command name and alias in the tree,
// depth-first, skipping the root's own name. Hidden commands are
// included: a typo for a hidden command still deserves the hint.
func Candidates(root *command.Command) []string {
	var names []string
	var walk func(c *command.Command)
	walk = func(c *command.Command) {
		for _, child := range c.Children() {
			names = append(names, child.Name())
			names = append(names, child.Aliases()...)
			walk(child)
		}
	}
	walk(root)
	return names
}
