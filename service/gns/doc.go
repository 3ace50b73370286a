// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gns is a client for the GNU Name System resolver daemon.
//
// Each lookup carries a client-chosen id that the daemon echoes in its
// result, so one connection serves any number of concurrent lookups
// through a service.Correlator. Results arrive in whatever order the
// daemon finishes them.
package gns
