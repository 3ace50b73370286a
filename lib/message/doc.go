// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package message implements the GNUnet IPC message envelope and the
// encode/decode shapes shared by every service client.
//
// Every message on the wire is a 4-byte [Header] followed by a body:
//
//	offset  size  field
//	0       2     length     total bytes including the header (big-endian)
//	2       2     wire_type  (big-endian)
//	4       *     body
//
// Outbound messages come in two shapes. A [Fixed] message is one
// contiguous buffer, header included. A [Compound] message is an
// ordered list of chunks (header plus fixed prefix, then payloads such
// as a name string and its NUL terminator) that a connection writes
// back-to-back without concatenating them. Both shapes compute the
// header length at construction and refuse anything larger than
// [MaxLength].
//
// Inbound bodies are parsed through a bounds-checked [Reader] or the
// prefix helpers [SplitPrefix], [ParsePrefixAndString] and
// [ParsePrefixAndRecords]. None of them panic on short or malformed
// input; every failure is a [*ParseError] that matches
// [ErrParseFailure] under errors.Is.
//
// Service clients check responses with [Expect] and [ExpectEither]:
//
//	ego, err := message.Expect[SetDefault](received.Type, received.Body)
//
//	either, err := message.ExpectEither[SetDefault, ResultCode](received.Type, received.Body)
//	if either.Second != nil {
//		return either.Second.Err()
//	}
//
// A wire type that matches none of the expected shapes yields an
// [*UnexpectedMessageError] before any decoding is attempted.
package message
