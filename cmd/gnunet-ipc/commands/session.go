// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/lib/clock"
	"github.com/bureau-foundation/gnunet/lib/config"
	"github.com/bureau-foundation/gnunet/lib/gnunetconf"
	"github.com/bureau-foundation/gnunet/lib/ipcmetrics"
	"github.com/bureau-foundation/gnunet/lib/trace"
	"github.com/bureau-foundation/gnunet/service"
)

// session is the per-command state derived from the configuration.
type session struct {
	config      *config.Config
	ini         *gnunetconf.Config
	resolver    service.Resolver
	logger      *slog.Logger
	clock       clock.Clock
	dialTimeout time.Duration

	recorder *trace.Recorder
	registry *prometheus.Registry
	metrics  *ipcmetrics.Metrics
}

// loadConfig reads the file named by GNUNET_IPC_CONFIG, falling back
// to the defaults when the variable is unset.
func loadConfig() (*config.Config, error) {
	if os.Getenv(config.EnvironmentVariable) == "" {
		return config.Default(), nil
	}
	return config.Load()
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cli.Validation("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %v", err)
	}
	level, _ := cfg.Level()
	dialTimeout, _ := cfg.DialTimeoutDuration()

	ini, err := cfg.LoadGNUnet()
	if err != nil {
		return nil, cli.Validation("%v", err)
	}

	s := &session{
		config:      cfg,
		ini:         ini,
		resolver:    cfg.Resolver(ini),
		logger:      cli.NewCommandLogger(level),
		clock:       clock.Real(),
		dialTimeout: dialTimeout,
	}

	if cfg.Trace.Enabled {
		compression, err := trace.ParseCompression(cfg.Trace.Compression)
		if err != nil {
			return nil, cli.Validation("%v", err)
		}
		s.recorder, err = trace.Create(cfg.Trace.Path, compression, trace.WithLogger(s.logger), trace.WithClock(s.clock))
		if err != nil {
			return nil, fmt.Errorf("starting wire capture: %w", err)
		}
	}

	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		s.metrics, err = ipcmetrics.New(cfg.Metrics.Namespace, s.registry)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return s, nil
}

// options returns the connection options every dial uses.
func (s *session) options() []service.Option {
	opts := []service.Option{
		service.WithLogger(s.logger),
		service.WithDialTimeout(s.dialTimeout),
	}
	if s.recorder != nil {
		opts = append(opts, service.WithObserver(s.recorder))
	}
	if s.metrics != nil {
		opts = append(opts, service.WithObserver(s.metrics))
	}
	return opts
}

func (s *session) correlatorOptions() []service.CorrelatorOption {
	opts := []service.CorrelatorOption{service.WithCorrelatorLogger(s.logger)}
	if s.metrics != nil {
		opts = append(opts, service.WithCallMetrics(s.metrics))
	}
	return opts
}

func (s *session) connect(ctx context.Context, name string) (*service.Connection, error) {
	return service.Connect(ctx, s.resolver, name, s.options()...)
}

// Close flushes the capture and writes the metrics textfile.
func (s *session) Close() error {
	var errs []error
	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing wire capture: %w", err))
		} else {
			s.logger.Debug("wire capture written", "path", s.config.Trace.Path, "records", s.recorder.Count())
		}
	}
	if s.registry != nil && s.config.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(s.config.Metrics.Textfile, s.registry); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}

// withSession runs fn in a fresh session and closes it afterwards,
// reporting a close failure only when fn succeeded.
func withSession(fn func(*session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	err = fn(s)
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
