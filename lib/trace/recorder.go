// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/bureau-foundation/gnunet/lib/clock"
	"github.com/bureau-foundation/gnunet/lib/codec"
	"github.com/bureau-foundation/gnunet/lib/gnstime"
	"github.com/bureau-foundation/gnunet/service"
)

// ErrRecorderClosed is returned by writes after Close.
var ErrRecorderClosed = errors.New("trace: recorder closed")

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the time source for record timestamps.
func WithClock(source clock.Clock) RecorderOption {
	return func(r *Recorder) { r.clock = source }
}

// WithLogger sets the logger for write failures.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = logger }
}

// Recorder writes every observed message to a capture. It is safe for
// concurrent use by several connections. Write errors are sticky: the
// first one stops recording and is returned by Err and Close.
type Recorder struct {
	clock  clock.Clock
	logger *slog.Logger

	mutex      sync.Mutex
	compressor io.WriteCloser
	encoder    *codec.Encoder
	file       io.Closer
	count      int
	err        error
	closed     bool
}

var _ service.Observer = (*Recorder)(nil)

// NewRecorder writes the capture header to w and returns a recorder
// appending to it. Close flushes the compressor but does not close w.
func NewRecorder(w io.Writer, compression Compression, opts ...RecorderOption) (*Recorder, error) {
	header := append(magic[:len(magic):len(magic)], byte(compression))
	compressor, err := compression.compressor(w)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(header); err != nil {
		compressor.Close()
		return nil, fmt.Errorf("trace: writing header: %w", err)
	}

	r := &Recorder{
		clock:      clock.Real(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		compressor: compressor,
		encoder:    codec.NewEncoder(compressor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Create creates (or truncates) the file at path and records to it.
// Close closes the file.
func Create(path string, compression Compression, opts ...RecorderOption) (*Recorder, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	r, err := NewRecorder(file, compression, opts...)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// ObserveMessage records event.
func (r *Recorder) ObserveMessage(event service.Event) {
	record := Record{
		Time:      gnstime.FromTime(r.clock.Now()),
		Direction: event.Direction.String(),
		Service:   event.Service,
		Type:      uint16(event.Type),
		Body:      event.Body,
	}
	if err := r.Write(record); err != nil && !errors.Is(err, ErrRecorderClosed) {
		r.logger.Debug("trace record dropped", "service", event.Service, "type", event.Type, "error", err)
	}
}

// Write appends one record.
func (r *Recorder) Write(record Record) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	if r.err != nil {
		return r.err
	}
	if err := r.encoder.Encode(record); err != nil {
		r.err = fmt.Errorf("trace: writing record: %w", err)
		return r.err
	}
	r.count++
	return nil
}

// Count returns the number of records written.
func (r *Recorder) Count() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.count
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.err
}

// Close flushes the capture. Later observations are ignored.
func (r *Recorder) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.closed {
		return r.err
	}
	r.closed = true

	errs := []error{r.err}
	if err := r.compressor.Close(); err != nil {
		errs = append(errs, fmt.Errorf("trace: flushing: %w", err))
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace: %w", err))
		}
	}
	r.err = errors.Join(errs...)
	return r.err
}
