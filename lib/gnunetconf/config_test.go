// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gnunetconf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func noEnvironment(string) (string, bool) { return "", false }

func TestParse(t *testing.T) {
	config, err := Parse(strings.NewReader(`
# comment
% also a comment
[gns]
UNIXPATH = /run/gns.sock
ZONE_PUBLISH_TIME_WINDOW=4 h

[Identity]
  EnableDefault =  YES
PORT = 2086
RATIO = 0.75
PORT = 2087
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	value, err := config.String("gns", "unixpath")
	if err != nil || value != "/run/gns.sock" {
		t.Errorf("String(gns, unixpath) = %q, %v", value, err)
	}
	port, err := config.Int("IDENTITY", "port")
	if err != nil || port != 2087 {
		t.Errorf("Int(identity, port) = %d, %v; want the later value 2087", port, err)
	}
	ratio, err := config.Float("identity", "RATIO")
	if err != nil || ratio != 0.75 {
		t.Errorf("Float = %v, %v", ratio, err)
	}
	enabled, err := config.Bool("identity", "enabledefault")
	if err != nil || !enabled {
		t.Errorf("Bool = %v, %v", enabled, err)
	}
	window, err := config.Relative("gns", "ZONE_PUBLISH_TIME_WINDOW")
	if err != nil || window.Duration() != 4*time.Hour {
		t.Errorf("Relative = %v, %v", window, err)
	}

	sections := config.Sections()
	if len(sections) != 2 || sections[0] != "Identity" || sections[1] != "gns" {
		t.Errorf("Sections = %v", sections)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("[a]\nkey = value\nnot a pair\n"))
	var syntax *SyntaxError
	if !errors.As(err, &syntax) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if syntax.Line != 3 {
		t.Errorf("Line = %d, want 3", syntax.Line)
	}

	_, err = Parse(strings.NewReader("@INLINE@ other.conf\n"))
	var inline *InlineError
	if !errors.As(err, &inline) {
		t.Fatalf("error = %v, want *InlineError", err)
	}
}

func TestLookupErrors(t *testing.T) {
	config, err := Parse(strings.NewReader("[gns]\nFLAG = maybe\nPORT = many\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := config.String("cadet", "UNIXPATH"); !errors.Is(err, ErrNoSection) {
		t.Errorf("missing section: %v", err)
	}
	if _, err := config.String("gns", "UNIXPATH"); !errors.Is(err, ErrNoKey) {
		t.Errorf("missing key: %v", err)
	}
	if _, err := config.SocketPath("gns"); !errors.Is(err, ErrNoKey) {
		t.Errorf("SocketPath without UNIXPATH: %v", err)
	}
	if _, err := config.Bool("gns", "FLAG"); err == nil {
		t.Error("Bool accepted \"maybe\"")
	}
	if _, err := config.Int("gns", "PORT"); err == nil {
		t.Error("Int accepted \"many\"")
	}
}

func TestInline(t *testing.T) {
	directory := t.TempDir()
	writeFile(t, filepath.Join(directory, "extra", "gns.conf"), "[gns]\nUNIXPATH = /inline/gns.sock\nIPV6 = NO\n")
	writeFile(t, filepath.Join(directory, "main.conf"), "[gns]\nIPV6 = YES\n@inline@ extra/gns.conf\n[gns]\nUNIXPATH = /main/gns.sock\n")

	config, err := LoadFile(filepath.Join(directory, "main.conf"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	value, _ := config.String("gns", "UNIXPATH")
	if value != "/main/gns.sock" {
		t.Errorf("UNIXPATH = %q, want the value after the include", value)
	}
	value, _ = config.String("gns", "IPV6")
	if value != "NO" {
		t.Errorf("IPV6 = %q, want the included value", value)
	}
}

func TestInlineCycle(t *testing.T) {
	directory := t.TempDir()
	writeFile(t, filepath.Join(directory, "a.conf"), "@INLINE@ b.conf\n")
	writeFile(t, filepath.Join(directory, "b.conf"), "@INLINE@ a.conf\n")

	_, err := LoadFile(filepath.Join(directory, "a.conf"))
	var inline *InlineError
	if !errors.As(err, &inline) {
		t.Fatalf("error = %v, want *InlineError", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "config.d", "10-gns.conf"), "[gns]\nUNIXPATH = /default/gns.sock\n")
	writeFile(t, filepath.Join(dataDir, "config.d", "20-override.conf"), "[gns]\nUNIXPATH = /override/gns.sock\n")
	writeFile(t, filepath.Join(dataDir, "config.d", "README"), "not a config file")
	userFile := filepath.Join(t.TempDir(), "gnunet.conf")
	writeFile(t, userFile, "[identity]\nUNIXPATH = /user/identity.sock\n")

	config, err := Load(dataDir, userFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gns, _ := config.SocketPath("gns")
	if gns != "/override/gns.sock" {
		t.Errorf("gns = %q, want the later config.d file to win", gns)
	}
	identity, _ := config.SocketPath("identity")
	if identity != "/user/identity.sock" {
		t.Errorf("identity = %q", identity)
	}

	if _, err := LoadDefaults(filepath.Join(dataDir, "missing")); err == nil {
		t.Error("LoadDefaults on a missing directory succeeded")
	}
}

func TestMergeAndSet(t *testing.T) {
	base := New()
	base.Set("gns", "UNIXPATH", "/base")
	overlay := New()
	overlay.Set("GNS", "unixpath", "/overlay")
	overlay.Set("cadet", "UNIXPATH", "/cadet")

	base.Merge(overlay)
	if value, _ := base.String("gns", "UNIXPATH"); value != "/overlay" {
		t.Errorf("gns = %q", value)
	}
	if value, _ := base.String("cadet", "UNIXPATH"); value != "/cadet" {
		t.Errorf("cadet = %q", value)
	}

	previous, replaced := base.Set("gns", "UNIXPATH", "/again")
	if !replaced || previous != "/overlay" {
		t.Errorf("Set returned %q, %v", previous, replaced)
	}
	if _, replaced := base.Set("gns", "NEW", "x"); replaced {
		t.Error("Set reported a replacement for a new key")
	}
}

func TestExpand(t *testing.T) {
	config := New().WithEnvironment(func(name string) (string, bool) {
		if name == "IN_ENV" {
			return "in_env", true
		}
		return "", false
	})
	config.Set("PATHS", "IN_PATHS", "in_paths")

	got, err := config.Expand("foo $IN_PATHS $IN_ENV ${NOT_ANYWHERE:-${IN_ENV}_wub}_blah")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if want := "foo in_paths in_env in_env_wub_blah"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpandRecursive(t *testing.T) {
	config := New().WithEnvironment(noEnvironment)
	config.Set("PATHS", "GNUNET_HOME", "/var/lib/gnunet")
	config.Set("PATHS", "GNUNET_RUNTIME_DIR", "${GNUNET_HOME}/run")
	config.Set("gns", "UNIXPATH", "$GNUNET_RUNTIME_DIR/gnunet-service-gns.sock")

	path, err := config.SocketPath("gns")
	if err != nil {
		t.Fatalf("SocketPath: %v", err)
	}
	if path != "/var/lib/gnunet/run/gnunet-service-gns.sock" {
		t.Errorf("SocketPath = %q", path)
	}

	found, err := config.Expand("${GNUNET_HOME:-/unused}")
	if err != nil || found != "/var/lib/gnunet" {
		t.Errorf("default ignored when found: %q, %v", found, err)
	}
}

func TestExpandErrors(t *testing.T) {
	config := New().WithEnvironment(noEnvironment)
	config.Set("PATHS", "LOOP", "$LOOP")

	var unknown *UnknownVariableError
	if _, err := config.Expand("/x/$MISSING/y"); !errors.As(err, &unknown) || unknown.Name != "MISSING" {
		t.Errorf("unknown variable: %v", err)
	}
	if _, err := config.Expand("${MISSING:-${ALSO_MISSING}}"); !errors.As(err, &unknown) || unknown.Name != "ALSO_MISSING" {
		t.Errorf("unknown variable in default: %v", err)
	}

	for _, text := range []string{"${NAME", "${NAME:-abc", "${NAME:-{x}", "${NAME:"} {
		if _, err := config.Expand(text); !errors.Is(err, ErrUnclosedBraces) {
			t.Errorf("Expand(%q) error = %v, want ErrUnclosedBraces", text, err)
		}
	}

	var syntax *ExpandSyntaxError
	for _, text := range []string{"a $/b", "trailing $", "${NAME:x}", "${NAME!}", "${}"} {
		if _, err := config.Expand(text); !errors.As(err, &syntax) {
			t.Errorf("Expand(%q) error = %v, want *ExpandSyntaxError", text, err)
		}
	}

	if _, err := config.Expand("$LOOP"); !errors.As(err, &syntax) {
		t.Errorf("self-referential expansion: %v", err)
	}
}
