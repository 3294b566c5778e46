// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"github.com/gavelrun/gavel/pkg/token"
)

// Route walks tokens from the root and returns the deepest matching
// command plus the token list minus the consumed subcommand names.
//
// Option and Flag tokens are skipped over (together with an
// immediately following paired Value token), so options interleaved
// before or between subcommand names do not end the search. The search
// halts at the first Separator or at the first Argument whose value
// does not name a child of the current command. Consumed names are
// removed by index, never by prefix truncation.
func Route(root *Command, tokens []token.Token) (*Command, []token.Token) {
	current := root
	consumed := make(map[int]bool)

walk:
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Type {
		case token.Separator:
			break walk
		case token.Option, token.Flag:
			if i+1 < len(tokens) && tokens[i+1].Type == token.Value {
				i++
			}
		case token.Argument:
			child := current.ChildByNameOrAlias(tok.Value)
			if child == nil {
				break walk
			}
			current = child
			consumed[i] = true
		}
	}

	rest := make([]token.Token, 0, len(tokens)-len(consumed))
	for i, tok := range tokens {
		if !consumed[i] {
			rest = append(rest, tok)
		}
	}
	return current, rest
}
