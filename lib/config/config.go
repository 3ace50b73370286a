// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/gnunet/lib/gnunetconf"
	"github.com/bureau-foundation/gnunet/service"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "GNUNET_IPC_CONFIG"

// Compression names accepted by trace.compression.
var Compressions = []string{"none", "zstd", "lz4"}

// Config is the client configuration.
type Config struct {
	// GNUnetConfig is the path to the GNUnet INI configuration file.
	// Default: ${XDG_CONFIG_HOME:-${HOME}/.config}/gnunet.conf
	GNUnetConfig string `yaml:"gnunet_config"`

	// DataDir is the GNUnet installation data directory whose
	// config.d holds the per-service defaults. Empty skips defaults.
	DataDir string `yaml:"data_dir"`

	// Sockets maps service names to socket paths, overriding the
	// GNUnet configuration.
	Sockets map[string]string `yaml:"sockets"`

	// LogLevel is one of debug, info, warn, error.
	// Default: warn
	LogLevel string `yaml:"log_level"`

	// DialTimeout bounds connecting to a service socket.
	// Default: 5s
	DialTimeout string `yaml:"dial_timeout"`

	// Trace configures wire capture.
	Trace TraceConfig `yaml:"trace"`

	// Metrics configures prometheus instrumentation.
	Metrics MetricsConfig `yaml:"metrics"`
}

// TraceConfig configures wire capture.
type TraceConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the capture file, created or truncated on start.
	Path string `yaml:"path"`

	// Compression is one of none, zstd, lz4.
	// Default: zstd
	Compression string `yaml:"compression"`
}

// MetricsConfig configures prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: gnunet_ipc
	Namespace string `yaml:"namespace"`

	// Textfile, if set, receives the metrics in the text exposition
	// format when a command finishes, for a node exporter textfile
	// collector.
	Textfile string `yaml:"textfile"`
}

// Default returns the default configuration. Values from a loaded
// file are merged over it.
func Default() *Config {
	cfg := &Config{
		GNUnetConfig: "${XDG_CONFIG_HOME:-${HOME}/.config}/gnunet.conf",
		Sockets:      map[string]string{},
		LogLevel:     "warn",
		DialTimeout:  "5s",
		Trace: TraceConfig{
			Compression: "zstd",
		},
		Metrics: MetricsConfig{
			Namespace: "gnunet_ipc",
		},
	}
	cfg.expandVariables()
	return cfg
}

// Load loads configuration from the file named by GNUNET_IPC_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your gnunet-ipc.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Sockets == nil {
		cfg.Sockets = map[string]string{}
	}

	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.GNUnetConfig = expandVars(c.GNUnetConfig, vars)
	c.DataDir = expandVars(c.DataDir, vars)
	c.Trace.Path = expandVars(c.Trace.Path, vars)
	c.Metrics.Textfile = expandVars(c.Metrics.Textfile, vars)
	for name, path := range c.Sockets {
		c.Sockets[name] = expandVars(path, vars)
	}
}

// varPattern matches ${VAR} and ${VAR:-default}. The default may hold
// one nested ${VAR}.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\$\{[A-Za-z_][A-Za-z0-9_]*\})*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return expandVars(defaultValue, vars)
	})
}

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.DialTimeoutDuration(); err != nil {
		errs = append(errs, err)
	}

	for name, path := range c.Sockets {
		if name == "" {
			errs = append(errs, errors.New("sockets: empty service name"))
			continue
		}
		if !filepath.IsAbs(path) {
			errs = append(errs, fmt.Errorf("sockets.%s must be an absolute path, got %q", name, path))
		}
	}

	if !slices.Contains(Compressions, c.Trace.Compression) {
		errs = append(errs, fmt.Errorf("trace.compression must be one of: %v", Compressions))
	}
	if c.Trace.Enabled && c.Trace.Path == "" {
		errs = append(errs, errors.New("trace.path is required when trace.enabled is set"))
	}

	if c.Metrics.Enabled && !metricNamespace.MatchString(c.Metrics.Namespace) {
		errs = append(errs, fmt.Errorf("metrics.namespace %q is not a valid metric name prefix", c.Metrics.Namespace))
	}
	if c.Metrics.Textfile != "" && !filepath.IsAbs(c.Metrics.Textfile) {
		errs = append(errs, fmt.Errorf("metrics.textfile must be an absolute path, got %q", c.Metrics.Textfile))
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// DialTimeoutDuration parses DialTimeout.
func (c *Config) DialTimeoutDuration() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.DialTimeout)
	if err != nil {
		return 0, fmt.Errorf("dial_timeout: %w", err)
	}
	if timeout <= 0 {
		return 0, fmt.Errorf("dial_timeout must be positive, got %s", timeout)
	}
	return timeout, nil
}

// LoadGNUnet reads the GNUnet INI configuration: the DataDir defaults
// (if set) and then GNUnetConfig (if set and present). A missing
// GNUnetConfig file is not an error, since GNUnet itself runs without
// one.
func (c *Config) LoadGNUnet() (*gnunetconf.Config, error) {
	path := c.GNUnetConfig
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	ini, err := gnunetconf.Load(c.DataDir, path)
	if err != nil {
		return nil, fmt.Errorf("loading GNUnet configuration: %w", err)
	}
	return ini, nil
}

// Resolver returns a resolver that consults Sockets first and then
// ini, which may be nil.
func (c *Config) Resolver(ini *gnunetconf.Config) service.Resolver {
	overrides := service.StaticResolver(c.Sockets)
	if ini == nil {
		return service.Chain(overrides)
	}
	return service.Chain(overrides, ini)
}
