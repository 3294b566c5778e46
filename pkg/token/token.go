// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token classifies raw argv strings into typed tokens.
//
// Tokenization is a single forward pass: each input string yields one
// token, or two for the "--name=value" form. Tokens are never mutated
// or reclassified after creation; every later stage (routing, option
// and argument parsing) works by filtering and consuming the fixed
// sequence by index.
package token

import "strings"

// Type classifies a single token.
type Type int

const (
	// Argument is a positional value, including everything after "--".
	Argument Type = iota
	// Option is a long flag ("--name"), stored without the dashes.
	Option
	// Flag is a short flag ("-x") or a short-flag cluster ("-xyz"),
	// stored without the leading dash.
	Flag
	// Value is a value bound with "=" syntax ("--name=value").
	Value
	// Separator is the literal "--".
	Separator
)

// String returns the token type name for error messages and debug logs.
func (t Type) String() string {
	switch t {
	case Argument:
		return "argument"
	case Option:
		return "option"
	case Flag:
		return "flag"
	case Value:
		return "value"
	case Separator:
		return "separator"
	default:
		return "unknown"
	}
}

// Token is one classified unit of the command line. Value is the
// normalized payload (flag name without dashes, bound value, or the
// literal argument), Raw is the original input string it came from,
// and Index is the token's position in the emitted sequence.
type Token struct {
	Type  Type
	Value string
	Raw   string
	Index int
}

// IsOption reports whether the token is a long or short flag token.
func (t Token) IsOption() bool {
	return t.Type == Option || t.Type == Flag
}

// Tokenize classifies argv into an ordered token sequence.
//
// Classification rules, in priority order:
//  1. The exact string "--" becomes a Separator and every later string
//     becomes an Argument verbatim, even ones that look like flags.
//  2. "--name" becomes an Option; "--name=value" becomes an Option
//     followed by a Value token.
//  3. "-x" becomes a single-character Flag.
//  4. "-xyz" (longer than two characters, not a negative number)
//     becomes a Flag carrying the whole cluster.
//  5. "-1" or "-2.5" style negative numeric literals become Arguments.
//     This rule takes precedence over rule 4.
//  6. Anything else becomes an Argument.
func Tokenize(argv []string) []Token {
	tokens := make([]Token, 0, len(argv))

	push := func(typ Type, value, raw string) {
		tokens = append(tokens, Token{Type: typ, Value: value, Raw: raw, Index: len(tokens)})
	}

	literal := false
	for _, raw := range argv {
		if literal {
			push(Argument, raw, raw)
			continue
		}

		switch {
		case raw == "--":
			push(Separator, raw, raw)
			literal = true

		case strings.HasPrefix(raw, "--"):
			name := raw[2:]
			if eq := strings.Index(name, "="); eq != -1 {
				push(Option, name[:eq], raw)
				push(Value, name[eq+1:], raw)
			} else {
				push(Option, name, raw)
			}

		case len(raw) == 2 && raw[0] == '-' && raw != "-":
			if isNegativeNumber(raw) {
				push(Argument, raw, raw)
			} else {
				push(Flag, raw[1:], raw)
			}

		case len(raw) > 2 && raw[0] == '-':
			if isNegativeNumber(raw) {
				push(Argument, raw, raw)
			} else {
				push(Flag, raw[1:], raw)
			}

		default:
			push(Argument, raw, raw)
		}
	}
	return tokens
}

// isNegativeNumber reports whether s is a dash followed by a numeric
// literal such as "-1" or "-2.5". A bare dash is not a number.
func isNegativeNumber(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	hasDigit := false
	hasDot := false
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.':
			if hasDot {
				return false
			}
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
