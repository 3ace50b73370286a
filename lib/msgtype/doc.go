// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package msgtype is the registry of GNUnet wire types: the 16-bit
// code carried in the second half of every message header.
//
// The set of known codes is closed at compile time but the protocol
// is not. Daemons gain new message kinds between releases, so a
// received code may be one this package has never heard of. Such a
// code is still a valid [Type] value. [Lookup] reports it as unknown,
// [Type.String] renders it as "unknown(N)", and nothing in the
// package panics on it. Callers that dispatch on a Type must always
// carry a default arm.
package msgtype
