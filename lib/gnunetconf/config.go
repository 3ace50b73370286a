// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gnunetconf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bureau-foundation/gnunet/lib/gnstime"
)

var (
	// ErrNoSection is returned when a section does not exist.
	ErrNoSection = errors.New("gnunetconf: no such section")

	// ErrNoKey is returned when a section has no such key.
	ErrNoKey = errors.New("gnunetconf: no such key")
)

// maxInlineDepth bounds @INLINE@ nesting, which also stops include
// cycles.
const maxInlineDepth = 16

// SyntaxError reports a line that is neither a comment, a section
// header, a key = value pair nor an @INLINE@ directive.
type SyntaxError struct {
	File string
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("gnunetconf: line %d: cannot parse %q", e.Line, e.Text)
	}
	return fmt.Sprintf("gnunetconf: %s:%d: cannot parse %q", e.File, e.Line, e.Text)
}

// InlineError reports an @INLINE@ file that could not be loaded.
type InlineError struct {
	File     string
	Line     int
	Included string
	Err      error
}

func (e *InlineError) Error() string {
	return fmt.Sprintf("gnunetconf: %s:%d: loading inline file %q: %v", e.File, e.Line, e.Included, e.Err)
}

func (e *InlineError) Unwrap() error { return e.Err }

// Config is a parsed configuration. The zero value is not usable; use
// New.
type Config struct {
	sections map[string]map[string]string
	// names keeps the first-seen spelling of each section.
	names map[string]string

	// lookupEnv resolves environment variables during expansion.
	lookupEnv func(string) (string, bool)
}

// New returns an empty configuration that expands from the process
// environment.
func New() *Config {
	return &Config{
		sections:  make(map[string]map[string]string),
		names:     make(map[string]string),
		lookupEnv: os.LookupEnv,
	}
}

// WithEnvironment replaces the environment lookup used by expansion.
// It returns c.
func (c *Config) WithEnvironment(lookup func(string) (string, bool)) *Config {
	c.lookupEnv = lookup
	return c
}

// Parse reads configuration text from r. @INLINE@ directives are
// rejected, since there is no file to resolve them against.
func Parse(r io.Reader) (*Config, error) {
	c := New()
	if err := c.parse(r, "", 0); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads one configuration file, following @INLINE@ includes.
func LoadFile(path string) (*Config, error) {
	c := New()
	if err := c.loadFile(path, 0); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDefaults merges every regular *.conf file in dataDir/config.d,
// in lexical order.
func LoadDefaults(dataDir string) (*Config, error) {
	directory := filepath.Join(dataDir, "config.d")
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("gnunetconf: reading defaults directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && filepath.Ext(entry.Name()) == ".conf" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	c := New()
	for _, name := range names {
		if err := c.loadFile(filepath.Join(directory, name), 0); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load merges the installation defaults from dataDir (skipped when
// dataDir is empty) and then the file at path (skipped when empty).
func Load(dataDir, path string) (*Config, error) {
	c := New()
	if dataDir != "" {
		defaults, err := LoadDefaults(dataDir)
		if err != nil {
			return nil, err
		}
		c.Merge(defaults)
	}
	if path != "" {
		if err := c.loadFile(path, 0); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Config) loadFile(path string, depth int) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("gnunetconf: %w", err)
	}
	defer file.Close()
	return c.parse(file, path, depth)
}

func (c *Config) parse(r io.Reader, path string, depth int) error {
	scanner := bufio.NewScanner(r)
	section := ""
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", line[0] == '#', line[0] == '%':
			continue

		case len(line) > len("@INLINE@ ") && strings.EqualFold(line[:len("@INLINE@ ")], "@INLINE@ "):
			included := strings.TrimSpace(line[len("@INLINE@ "):])
			if err := c.inline(path, lineNumber, included, depth); err != nil {
				return err
			}

		case line[0] == '[' && line[len(line)-1] == ']' && len(line) > 2:
			section = line[1 : len(line)-1]

		default:
			key, value, found := strings.Cut(line, "=")
			key = strings.TrimSpace(key)
			if !found || key == "" {
				return &SyntaxError{File: path, Line: lineNumber, Text: scanner.Text()}
			}
			c.Set(section, key, strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gnunetconf: reading %s: %w", path, err)
	}
	return nil
}

func (c *Config) inline(path string, lineNumber int, included string, depth int) error {
	if path == "" {
		return &InlineError{File: "<input>", Line: lineNumber, Included: included, Err: errors.New("@INLINE@ needs a file context")}
	}
	if depth >= maxInlineDepth {
		return &InlineError{File: path, Line: lineNumber, Included: included, Err: errors.New("too many nested @INLINE@ directives")}
	}
	if !filepath.IsAbs(included) {
		included = filepath.Join(filepath.Dir(path), included)
	}
	if err := c.loadFile(included, depth+1); err != nil {
		return &InlineError{File: path, Line: lineNumber, Included: included, Err: err}
	}
	return nil
}

// Merge copies every value of other into c, overriding existing ones.
func (c *Config) Merge(other *Config) {
	for normalized, values := range other.sections {
		for key, value := range values {
			c.Set(other.names[normalized], key, value)
		}
	}
}

// Set stores value and returns the value it replaced, if any.
func (c *Config) Set(section, key, value string) (previous string, replaced bool) {
	normalized := strings.ToLower(section)
	values, ok := c.sections[normalized]
	if !ok {
		values = make(map[string]string)
		c.sections[normalized] = values
		c.names[normalized] = section
	}
	previous, replaced = values[strings.ToLower(key)]
	values[strings.ToLower(key)] = value
	return previous, replaced
}

// Sections returns the section names in sorted order.
func (c *Config) Sections() []string {
	names := make([]string, 0, len(c.names))
	for _, name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the raw value of section/key.
func (c *Config) String(section, key string) (string, error) {
	values, ok := c.sections[strings.ToLower(section)]
	if !ok {
		return "", fmt.Errorf("%w: [%s]", ErrNoSection, section)
	}
	value, ok := values[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: [%s] %s", ErrNoKey, section, key)
	}
	return value, nil
}

// Int returns section/key as an unsigned integer.
func (c *Config) Int(section, key string) (uint64, error) {
	value, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	number, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("gnunetconf: [%s] %s: %w", section, key, err)
	}
	return number, nil
}

// Float returns section/key as a float.
func (c *Config) Float(section, key string) (float64, error) {
	value, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("gnunetconf: [%s] %s: %w", section, key, err)
	}
	return number, nil
}

// Bool returns section/key as a GNUnet YES/NO flag.
func (c *Config) Bool(section, key string) (bool, error) {
	value, err := c.String(section, key)
	if err != nil {
		return false, err
	}
	switch strings.ToUpper(value) {
	case "YES":
		return true, nil
	case "NO":
		return false, nil
	default:
		return false, fmt.Errorf("gnunetconf: [%s] %s: %q is neither YES nor NO", section, key, value)
	}
}

// Relative returns section/key as a duration ("5 s", "1 h 30 min").
func (c *Config) Relative(section, key string) (gnstime.Relative, error) {
	value, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	relative, err := gnstime.ParseRelative(value)
	if err != nil {
		return 0, fmt.Errorf("gnunetconf: [%s] %s: %w", section, key, err)
	}
	return relative, nil
}

// Filename returns section/key after $-expansion.
func (c *Config) Filename(section, key string) (string, error) {
	value, err := c.String(section, key)
	if err != nil {
		return "", err
	}
	expanded, err := c.Expand(value)
	if err != nil {
		return "", fmt.Errorf("gnunetconf: [%s] %s: %w", section, key, err)
	}
	return expanded, nil
}

// SocketPath returns the expanded UNIXPATH of the named service's
// section.
func (c *Config) SocketPath(service string) (string, error) {
	return c.Filename(service, "UNIXPATH")
}
