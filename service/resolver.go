// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"fmt"
)

// Resolver maps a service name ("gns", "identity", ...) to the path of
// its Unix socket. Implementations return an error wrapping
// ErrNotConfigured when the service has no socket configured.
type Resolver interface {
	SocketPath(service string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(service string) (string, error)

// SocketPath calls f.
func (f ResolverFunc) SocketPath(service string) (string, error) { return f(service) }

// StaticResolver resolves from a fixed map.
type StaticResolver map[string]string

// SocketPath returns the mapped path or ErrNotConfigured.
func (r StaticResolver) SocketPath(service string) (string, error) {
	path, ok := r[service]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %q", ErrNotConfigured, service)
	}
	return path, nil
}

// Chain tries each resolver in order and returns the first path
// found. When every resolver fails, the error wraps ErrNotConfigured
// and the last resolver's error.
func Chain(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(service string) (string, error) {
		var last error
		for _, resolver := range resolvers {
			path, err := resolver.SocketPath(service)
			if err == nil {
				return path, nil
			}
			last = err
		}
		if last == nil || errors.Is(last, ErrNotConfigured) {
			return "", fmt.Errorf("%w: %q", ErrNotConfigured, service)
		}
		return "", fmt.Errorf("%w: %q: %w", ErrNotConfigured, service, last)
	})
}
