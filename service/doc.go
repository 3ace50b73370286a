// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service connects to local GNUnet service daemons and moves
// framed messages over their Unix sockets.
//
// A [Connection] owns one socket to one named service. It offers three
// primitives: [Connection.Send] writes a single-buffer message,
// [Connection.SendCompound] writes a chunked message with one writev,
// and [Connection.Recv] reads exactly one message and strips its
// header. A header whose length is below the header size, or a body
// cut short by EOF, desynchronizes the stream; the connection marks
// itself broken and every later call fails with [ErrBroken].
//
// Two correlation layers sit on top of a Connection, chosen by the
// service's response conventions:
//
//   - [Correlator] matches responses to requests by an id embedded in
//     both. One goroutine owns every read on the connection and
//     dispatches each message to the caller waiting on its id. Use it
//     for services that answer out of order or interleave
//     notifications (GNS).
//   - [Sequencer] pairs each request with the next message read. Use it
//     only for services that answer strictly in order (identity,
//     transport handshake, peerinfo iteration).
//
// Socket paths come from a [Resolver], normally the GNUnet
// configuration (see lib/gnunetconf) layered under the client
// configuration overrides (see lib/config).
//
// Nothing in this package retries, and nothing logs above Debug.
// Every failure is returned to the caller as a typed error.
package service
