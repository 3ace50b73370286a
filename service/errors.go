// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned by a Resolver that has no socket path
	// for the requested service.
	ErrNotConfigured = errors.New("service: socket path not configured")

	// ErrBroken is returned by every operation on a connection whose
	// stream has been desynchronized or closed.
	ErrBroken = errors.New("service: connection is broken")

	// ErrDisconnected is delivered to every request still pending when
	// a correlated connection stops reading.
	ErrDisconnected = errors.New("service: disconnected")

	// ErrDuplicateID is returned by Correlator.Call when the id is
	// already waiting for a response.
	ErrDuplicateID = errors.New("service: correlation id already pending")
)

// ConnectKind classifies a connect failure.
type ConnectKind int

const (
	// ConnectNotConfigured means the socket path could not be resolved.
	ConnectNotConfigured ConnectKind = iota + 1

	// ConnectIO means the OS refused the connection.
	ConnectIO
)

func (k ConnectKind) String() string {
	switch k {
	case ConnectNotConfigured:
		return "not configured"
	case ConnectIO:
		return "io"
	default:
		return fmt.Sprintf("ConnectKind(%d)", int(k))
	}
}

// ConnectError is returned by Connect.
type ConnectError struct {
	Kind    ConnectKind
	Service string
	// Path is empty for ConnectNotConfigured.
	Path string
	Err  error
}

func (e *ConnectError) Error() string {
	if e.Kind == ConnectNotConfigured {
		return fmt.Sprintf("connecting to service %q: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("connecting to service %q at %s: %v", e.Service, e.Path, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ShortMessageError reports a header whose length field is smaller
// than the header itself. The connection that read it is broken.
type ShortMessageError struct {
	Service string
	Length  uint16
}

func (e *ShortMessageError) Error() string {
	return fmt.Sprintf("service %q sent a message header with length %d (minimum 4)", e.Service, e.Length)
}

// Is makes ShortMessageError match ErrBroken, since the stream cannot
// be resumed after one.
func (e *ShortMessageError) Is(target error) bool { return target == ErrBroken }

// FramingError reports a read that ended partway through a message.
// The connection that produced it is broken.
type FramingError struct {
	Service string
	// Stage is "header" or "body".
	Stage string
	Want  int
	Got   int
	Err   error
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("service %q: read message %s: got %d of %d bytes: %v", e.Service, e.Stage, e.Got, e.Want, e.Err)
}

func (e *FramingError) Unwrap() error { return e.Err }

// Is makes FramingError match ErrBroken.
func (e *FramingError) Is(target error) bool { return target == ErrBroken }
