// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps or compares wall-clock times (trace records, call
// latency, GNS record expiry) takes a [Clock] instead of calling
// time.Now directly. Production code passes [Real]; tests pass a
// [FakeClock] and move it with Advance or Set.
package clock
