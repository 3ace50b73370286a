// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gnunetconf

import (
	"errors"
	"fmt"
	"strings"
)

// pathsSection holds the variables $-expansion consults before the
// environment.
const pathsSection = "PATHS"

// maxExpandDepth bounds recursive expansion so that a PATHS entry
// referring to itself fails instead of looping.
const maxExpandDepth = 64

// ErrUnclosedBraces is returned for a "${" with no matching "}".
var ErrUnclosedBraces = errors.New("gnunetconf: unclosed braces in expansion")

// UnknownVariableError reports a variable found neither in PATHS nor
// in the environment.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("gnunetconf: unknown variable %q", e.Name)
}

// ExpandSyntaxError reports a malformed expansion at a byte offset of
// the text being expanded.
type ExpandSyntaxError struct {
	Text     string
	Position int
	Reason   string
}

func (e *ExpandSyntaxError) Error() string {
	return fmt.Sprintf("gnunetconf: %s at offset %d of %q", e.Reason, e.Position, e.Text)
}

// Expand performs $-expansion on text.
func (c *Config) Expand(text string) (string, error) {
	return c.expand(text, 0)
}

func (c *Config) expand(text string, depth int) (string, error) {
	if depth > maxExpandDepth {
		return "", &ExpandSyntaxError{Text: text, Reason: "expansion nested too deeply"}
	}
	if !strings.Contains(text, "$") {
		return text, nil
	}

	var out strings.Builder
	for i := 0; i < len(text); {
		dollar := strings.IndexByte(text[i:], '$')
		if dollar < 0 {
			out.WriteString(text[i:])
			break
		}
		out.WriteString(text[i : i+dollar])
		i += dollar + 1

		if i < len(text) && text[i] == '{' {
			value, next, err := c.expandBraced(text, i+1, depth)
			if err != nil {
				return "", err
			}
			out.WriteString(value)
			i = next
			continue
		}

		name, next := scanName(text, i)
		if name == "" {
			return "", &ExpandSyntaxError{Text: text, Position: i - 1, Reason: "'$' not followed by a variable name"}
		}
		value, err := c.variable(name, depth)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		i = next
	}
	return out.String(), nil
}

// expandBraced handles the text after "${" starting at start, returning
// the substitution and the offset just past the closing brace.
func (c *Config) expandBraced(text string, start, depth int) (string, int, error) {
	name, next := scanName(text, start)
	if next >= len(text) {
		return "", 0, ErrUnclosedBraces
	}
	if name == "" {
		return "", 0, &ExpandSyntaxError{Text: text, Position: start, Reason: "expected a variable name after '${'"}
	}

	switch text[next] {
	case '}':
		value, err := c.variable(name, depth)
		return value, next + 1, err

	case ':':
		if next+1 >= len(text) {
			return "", 0, ErrUnclosedBraces
		}
		if text[next+1] != '-' {
			return "", 0, &ExpandSyntaxError{Text: text, Position: next + 1, Reason: "expected '-' after ':'"}
		}
		defaultStart := next + 2
		end, ok := matchingBrace(text, defaultStart)
		if !ok {
			return "", 0, ErrUnclosedBraces
		}
		value, found, err := c.lookupVariable(name, depth)
		if err != nil {
			return "", 0, err
		}
		if !found {
			value, err = c.expand(text[defaultStart:end], depth+1)
			if err != nil {
				return "", 0, err
			}
		}
		return value, end + 1, nil

	default:
		return "", 0, &ExpandSyntaxError{Text: text, Position: next, Reason: "expected '}' or ':-'"}
	}
}

func (c *Config) variable(name string, depth int) (string, error) {
	value, found, err := c.lookupVariable(name, depth)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &UnknownVariableError{Name: name}
	}
	return value, nil
}

// lookupVariable resolves name from PATHS, then the environment, and
// expands the result.
func (c *Config) lookupVariable(name string, depth int) (string, bool, error) {
	if value, err := c.String(pathsSection, name); err == nil {
		expanded, err := c.expand(value, depth+1)
		return expanded, true, err
	}
	if c.lookupEnv != nil {
		if value, ok := c.lookupEnv(name); ok {
			expanded, err := c.expand(value, depth+1)
			return expanded, true, err
		}
	}
	return "", false, nil
}

// scanName returns the run of ASCII letters, digits and underscores
// starting at start.
func scanName(text string, start int) (string, int) {
	end := start
	for end < len(text) {
		ch := text[end]
		if ch == '_' || ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' {
			end++
			continue
		}
		break
	}
	return text[start:end], end
}

// matchingBrace finds the '}' closing a brace opened just before start,
// counting nested "{" pairs.
func matchingBrace(text string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
