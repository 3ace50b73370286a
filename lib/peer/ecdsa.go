// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"filippo.io/edwards25519"
)

// PublicKey derives the ECDSA public key: the private key, read as a
// big-endian scalar, times the Ed25519 base point.
func (k PrivateKey) PublicKey() PublicKey {
	// SetUniformBytes takes 64 little-endian bytes and reduces them
	// modulo the group order, which leaves the point unchanged.
	var wide [64]byte
	for i, b := range k {
		wide[KeySize-1-i] = b
	}
	scalar, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		panic("peer: SetUniformBytes rejected a 64-byte input: " + err.Error())
	}
	return PublicKey(new(edwards25519.Point).ScalarBaseMult(scalar).Bytes())
}
