// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package peerinfo is a client for the peerinfo daemon, which keeps
// the HELLOs of known peers.
//
// A query is answered by a stream of PEERINFO_INFO messages closed by
// PEERINFO_INFO_END. Each PEERINFO_INFO names a peer and may carry the
// peer's HELLO as a complete embedded message, header included.
package peerinfo
