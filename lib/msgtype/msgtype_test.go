// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgtype

import "testing"

func TestLookupKnown(t *testing.T) {
	tests := []struct {
		code uint16
		name string
		kind Kind
	}{
		{500, "GNS_LOOKUP", KindGNS},
		{501, "GNS_LOOKUP_RESULT", KindGNS},
		{627, "IDENTITY_GET_DEFAULT", KindIdentity},
		{17, "HELLO", KindHello},
		{1024, "CADET_LOCAL_CHANNEL_CREATE", KindCadet},
	}
	for _, test := range tests {
		typ, kind, known := Lookup(test.code)
		if !known {
			t.Errorf("Lookup(%d): known = false", test.code)
			continue
		}
		if uint16(typ) != test.code {
			t.Errorf("Lookup(%d): type = %d", test.code, typ)
		}
		if kind != test.kind {
			t.Errorf("Lookup(%d): kind = %q, want %q", test.code, kind, test.kind)
		}
		if typ.String() != test.name {
			t.Errorf("Lookup(%d).String() = %q, want %q", test.code, typ.String(), test.name)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, code := range []uint16{0, 502, 9999, 65535} {
		typ, kind, known := Lookup(code)
		if known {
			t.Errorf("Lookup(%d): known = true", code)
		}
		if kind != KindUnknown {
			t.Errorf("Lookup(%d): kind = %q, want unknown", code, kind)
		}
		if uint16(typ) != code {
			t.Errorf("Lookup(%d): type = %d, want code preserved", code, typ)
		}
		if typ.Known() {
			t.Errorf("Type(%d).Known() = true", code)
		}
	}
	if got := Type(9999).String(); got != "unknown(9999)" {
		t.Errorf("String() = %q, want unknown(9999)", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Type
		ok    bool
	}{
		{"IDENTITY_SET_DEFAULT", IdentitySetDefault, true},
		{"unknown(4242)", Type(4242), true},
		{"7", Type(7), true},
		{"NOT_A_TYPE", 0, false},
		{"70000", 0, false},
	}
	for _, test := range tests {
		got, ok := Parse(test.input)
		if ok != test.ok || got != test.want {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", test.input, got, ok, test.want, test.ok)
		}
	}
}

func TestRegistryNamesUnique(t *testing.T) {
	seen := make(map[string]Type)
	for typ, registered := range registry {
		if other, exists := seen[registered.name]; exists {
			t.Errorf("name %q registered for both %d and %d", registered.name, other, typ)
		}
		seen[registered.name] = typ
		if registered.kind == KindUnknown || registered.kind == "" {
			t.Errorf("type %d has no kind", typ)
		}
	}
}
