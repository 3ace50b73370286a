// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
)

func sequentialKey() PublicKey {
	var key PublicKey
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestKeyTextRoundTrip(t *testing.T) {
	key := sequentialKey()
	text := key.String()
	if len(text) != EncodedKeySize {
		t.Fatalf("len(String()) = %d, want %d", len(text), EncodedKeySize)
	}
	if strings.ContainsAny(text, "ILOU=") {
		t.Errorf("String() = %q uses characters outside the Crockford alphabet", text)
	}

	parsed, err := ParsePublicKey(text)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if parsed != key {
		t.Errorf("round trip mismatch: %x", parsed)
	}

	lower, err := ParsePublicKey(strings.ToLower(text))
	if err != nil || lower != key {
		t.Errorf("lower-case parse = %x, %v", lower, err)
	}
}

func TestZeroKeyEncoding(t *testing.T) {
	var zero PublicKey
	if got := zero.String(); got != strings.Repeat("0", EncodedKeySize) {
		t.Errorf("zero key = %q", got)
	}
	if !zero.IsZero() {
		t.Error("IsZero() = false for zero key")
	}
	// 'O' is an alias for '0'.
	parsed, err := ParsePublicKey(strings.Repeat("O", EncodedKeySize))
	if err != nil || !parsed.IsZero() {
		t.Errorf("ParsePublicKey(OOO...) = %x, %v", parsed, err)
	}
}

func TestParseRejectsBadText(t *testing.T) {
	for _, text := range []string{
		"",
		"ABC",
		strings.Repeat("0", EncodedKeySize-1) + "U",
		strings.Repeat("0", EncodedKeySize+1),
	} {
		if _, err := ParseIdentity(text); err == nil {
			t.Errorf("ParseIdentity(%q) succeeded", text)
		}
	}
}

func TestIdentityText(t *testing.T) {
	identity := Identity(sequentialKey())
	if identity.String() != sequentialKey().String() {
		t.Error("Identity and PublicKey encode differently")
	}
	if identity.Short() != identity.String()[:4] {
		t.Errorf("Short() = %q", identity.Short())
	}

	var decoded Identity
	text, _ := identity.MarshalText()
	if err := decoded.UnmarshalText(text); err != nil || decoded != identity {
		t.Errorf("UnmarshalText = %v, %v", decoded, err)
	}
}

func TestPrivateKeyRedacted(t *testing.T) {
	var key PrivateKey
	key[0] = 0xAB
	for _, rendered := range []string{fmt.Sprint(key), fmt.Sprintf("%v", key), fmt.Sprintf("%#v", key)} {
		if !strings.Contains(rendered, "redacted") || strings.Contains(rendered, "171") {
			t.Errorf("private key rendered as %q", rendered)
		}
	}
}

// TestPrivateKeyPublicKey checks the derivation against Ed25519: an
// Ed25519 public key is the clamped seed hash times the base point.
func TestPrivateKeyPublicKey(t *testing.T) {
	for _, seedByte := range []byte{0, 1, 0x5a, 0xff} {
		seed := bytes.Repeat([]byte{seedByte}, ed25519.SeedSize)
		expected := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

		digest := sha512.Sum512(seed)
		scalar := digest[:32]
		scalar[0] &= 248
		scalar[31] &= 127
		scalar[31] |= 64

		// The scalar is little-endian; PrivateKey holds it big-endian.
		var key PrivateKey
		for i := range key {
			key[i] = scalar[KeySize-1-i]
		}

		got := key.PublicKey()
		if !bytes.Equal(got[:], expected) {
			t.Errorf("seed %#x: PublicKey = %x, want %x", seedByte, got[:], []byte(expected))
		}
	}
}

func TestPrivateKeyPublicKeyOfOne(t *testing.T) {
	var one PrivateKey
	one[KeySize-1] = 1
	got := one.PublicKey()
	// The standard compressed Ed25519 base point.
	want := "5866666666666666666666666666666666666666666666666666666666666666"
	if hex.EncodeToString(got[:]) != want {
		t.Errorf("1·B = %x, want %s", got[:], want)
	}
}
