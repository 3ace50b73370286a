// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared CBOR configuration for data this
// module stores outside the GNUnet wire protocol, chiefly wire capture
// records written by lib/trace.
//
// GNUnet messages themselves are never CBOR: they use the fixed
// big-endian layouts of lib/message. CBOR is only the container for
// captured frames and for any structured value persisted to disk.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same record always produces identical bytes and captures can be
// compared byte for byte.
//
//	data, err := codec.Marshal(record)
//	err = codec.Unmarshal(data, &record)
//
// Capture files are CBOR sequences (RFC 8742), read and written with
// the stream forms:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Types with a text form (peer.Identity, msgtype names) are encoded as
// CBOR text strings via MarshalText.
package codec
