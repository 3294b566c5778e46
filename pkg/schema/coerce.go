// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseBoolValue maps an explicit value string onto a boolean using
// the engine's convention: "true", "1" and "yes" are true, everything
// else is false. It never fails; an unrecognized string is simply
// falsy.
func ParseBoolValue(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// CoerceValue converts a raw string into the value shape declared by
// typ. A custom coerce function, when given, wins over the type rule.
func CoerceValue(raw string, typ ValueType, coerce CoerceFunc) (any, error) {
	if coerce != nil {
		return coerce(raw)
	}
	switch typ {
	case Number:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return f, nil
	case Bool:
		return ParseBoolValue(raw), nil
	case Array:
		parts := strings.Split(raw, ",")
		items := make([]string, len(parts))
		for i, p := range parts {
			items[i] = strings.TrimSpace(p)
		}
		return items, nil
	case Object:
		if eq := strings.Index(raw, "="); eq != -1 {
			return map[string]any{raw[:eq]: raw[eq+1:]}, nil
		}
		return map[string]any{raw: true}, nil
	default:
		return raw, nil
	}
}

// CheckChoices verifies a coerced value against an allowed set. Array
// values are checked element-wise. An empty choice list allows
// everything.
func CheckChoices(name string, v any, choices []string) error {
	if len(choices) == 0 {
		return nil
	}
	allowed := func(s string) bool {
		for _, c := range choices {
			if c == s {
				return true
			}
		}
		return false
	}
	switch val := v.(type) {
	case []string:
		for _, item := range val {
			if !allowed(item) {
				return fmt.Errorf("invalid value %q for %s: expected one of %s", item, name, strings.Join(choices, ", "))
			}
		}
		return nil
	default:
		s := fmt.Sprintf("%v", v)
		if !allowed(s) {
			return fmt.Errorf("invalid value %q for %s: expected one of %s", s, name, strings.Join(choices, ", "))
		}
		return nil
	}
}

// Stringify renders a default value the way it would have arrived on
// the command line, so defaults flow through the same coercion path
// as user input.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
