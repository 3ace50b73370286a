// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package peer defines the fixed-size key types that appear in GNUnet
// message bodies and their text form.
//
// GNUnet writes keys and peer identities as unpadded base32 over the
// Crockford alphabet (0-9, A-Z without I, L, O, U), most significant
// bit first. A 32-byte key is 52 characters. Parsing is
// case-insensitive and accepts the Crockford aliases O for 0 and I or
// L for 1.
//
// An ego's [PrivateKey] is an ECDSA scalar on Edwards25519, stored
// big-endian; [PrivateKey.PublicKey] multiplies it by the base point.
// That public key is the zone key GNS lookups name.
package peer
