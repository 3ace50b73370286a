// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared helpers for tests that talk to fake
// service daemons.
//
// [SocketDir] creates a short directory under /tmp for Unix sockets.
// sun_path is limited to 108 bytes, and t.TempDir() paths under some
// test runners exceed it.
//
// [ConnPair] returns both ends of a connected Unix stream socket pair.
// [FakeDaemon] listens on a real socket path and hands each accepted
// connection to a script written in terms of [DaemonConn], which reads
// and writes framed messages from the daemon's side.
//
// [RequireReceive], [RequireSend] and [RequireClosed] wrap the select
// with a time.After fallback so that a hung test fails instead of
// blocking forever. They are the only wall-clock timeouts in the test
// suite.
//
// Helpers call t.Fatalf on setup failure rather than returning errors.
package testutil
