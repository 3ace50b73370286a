// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"encoding/base32"
	"fmt"
	"strings"
)

// KeySize is the size of every key type in this package.
const KeySize = 32

// EncodedKeySize is the length of the text form of a key.
const EncodedKeySize = 52

var encoding = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

var crockfordAliases = strings.NewReplacer("O", "0", "I", "1", "L", "1")

// PublicKey is a 32-byte EdDSA or ECDSA public key: a GNS zone key or
// the key inside a peer identity.
type PublicKey [KeySize]byte

// PrivateKey is a 32-byte ECDSA private key, as carried by identity
// service messages. Its String form is redacted.
type PrivateKey [KeySize]byte

// Identity is a peer identity: the peer's EdDSA public key.
type Identity PublicKey

func encodeKey(key [KeySize]byte) string {
	return encoding.EncodeToString(key[:])
}

func decodeKey(text string) ([KeySize]byte, error) {
	var key [KeySize]byte
	if len(text) != EncodedKeySize {
		return key, fmt.Errorf("peer: key text has %d characters, want %d", len(text), EncodedKeySize)
	}
	normalized := crockfordAliases.Replace(strings.ToUpper(text))
	decoded, err := encoding.DecodeString(normalized)
	if err != nil {
		return key, fmt.Errorf("peer: invalid key text %q: %w", text, err)
	}
	copy(key[:], decoded)
	return key, nil
}

// String returns the base32 text form.
func (k PublicKey) String() string { return encodeKey(k) }

// IsZero reports whether every byte of k is zero.
func (k PublicKey) IsZero() bool { return k == PublicKey{} }

// MarshalText implements encoding.TextMarshaler.
func (k PublicKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PublicKey) UnmarshalText(text []byte) error {
	decoded, err := decodeKey(string(text))
	if err != nil {
		return err
	}
	*k = decoded
	return nil
}

// ParsePublicKey parses the base32 text form of a public key.
func ParsePublicKey(text string) (PublicKey, error) {
	key, err := decodeKey(text)
	return PublicKey(key), err
}

// String returns the base32 text form of the identity.
func (id Identity) String() string { return encodeKey(id) }

// Short returns the first four characters of the text form, the way
// GNUnet abbreviates peers in logs.
func (id Identity) Short() string { return encodeKey(id)[:4] }

// PublicKey returns the identity's key.
func (id Identity) PublicKey() PublicKey { return PublicKey(id) }

// MarshalText implements encoding.TextMarshaler.
func (id Identity) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	decoded, err := decodeKey(string(text))
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}

// ParseIdentity parses the base32 text form of a peer identity.
func ParseIdentity(text string) (Identity, error) {
	key, err := decodeKey(text)
	return Identity(key), err
}

// String never reveals key material.
func (PrivateKey) String() string { return "PrivateKey(redacted)" }

// GoString never reveals key material.
func (PrivateKey) GoString() string { return "peer.PrivateKey(redacted)" }
