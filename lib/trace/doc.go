// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trace captures the messages crossing service connections to
// a file and replays them.
//
// A capture file starts with an 8-byte magic ("GNIPCTR1") and a
// one-byte [Compression] tag. The rest of the file is a CBOR sequence
// of [Record] values, passed through the tagged compressor. [Recorder]
// is a service.Observer, so attaching it to a connection is one
// option:
//
//	recorder, err := trace.Create(path, trace.CompressionZstd)
//	conn, err := service.Connect(ctx, resolver, "gns",
//		service.WithObserver(recorder))
//	...
//	recorder.Close()
//
// [Reader] yields the records back in order.
package trace
