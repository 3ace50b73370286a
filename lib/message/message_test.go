// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

// pingMessage is a fixed shape: a u32 sequence number and a u16 flag.
type pingMessage struct {
	Sequence uint32
	Flags    uint16
}

func (*pingMessage) MessageType() msgtype.Type { return msgtype.Dummy }

func (p *pingMessage) DecodeBody(body []byte) error {
	reader := NewReader(body)
	p.Sequence = reader.Uint32("sequence")
	p.Flags = reader.Uint16("flags")
	return reader.End()
}

func (p *pingMessage) encode(t *testing.T) *Fixed {
	t.Helper()
	fixed, err := NewFixed(msgtype.Dummy, NewBuilder(6).Uint32(p.Sequence).Uint16(p.Flags).Bytes())
	if err != nil {
		t.Fatalf("NewFixed: %v", err)
	}
	return fixed
}

// namedMessage is the "name_len, reserved, name\0" shape used by the
// identity service.
type namedMessage struct {
	Name string
}

func (*namedMessage) MessageType() msgtype.Type { return msgtype.IdentityGetDefault }

func (n *namedMessage) DecodeBody(body []byte) error {
	reader := NewReader(body)
	nameLength := reader.Uint16("name_len")
	reader.Uint16("reserved")
	n.Name = reader.SizedCString("name", int(nameLength))
	return reader.End()
}

// errorMessage is the alternative shape for ExpectEither tests.
type errorMessage struct {
	Code uint32
}

func (*errorMessage) MessageType() msgtype.Type { return msgtype.IdentityResultCode }

func (e *errorMessage) DecodeBody(body []byte) error {
	reader := NewReader(body)
	e.Code = reader.Uint32("result_code")
	return reader.Err()
}

func TestFixedHeader(t *testing.T) {
	fixed, err := NewFixed(msgtype.Type(7), []byte{2, 4, 6, 8})
	if err != nil {
		t.Fatalf("NewFixed: %v", err)
	}
	want := []byte{0, 8, 0, 7, 2, 4, 6, 8}
	if !bytes.Equal(fixed.Bytes(), want) {
		t.Errorf("Bytes() = %v, want %v", fixed.Bytes(), want)
	}
	if !bytes.Equal(fixed.Body(), []byte{2, 4, 6, 8}) {
		t.Errorf("Body() = %v", fixed.Body())
	}
	header, err := DecodeHeader(fixed.Bytes())
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if header.Length != 8 || header.Type != 7 || header.BodyLength() != 4 {
		t.Errorf("header = %+v", header)
	}
}

func TestFixedRoundTrip(t *testing.T) {
	for _, original := range []pingMessage{
		{Sequence: 0, Flags: 0},
		{Sequence: 1, Flags: 0x8001},
		{Sequence: 0xFFFFFFFF, Flags: 0xFFFF},
	} {
		fixed := original.encode(t)
		decoded, err := Expect[pingMessage](fixed.MessageType(), fixed.Body())
		if err != nil {
			t.Fatalf("Expect(%+v): %v", original, err)
		}
		if *decoded != original {
			t.Errorf("round trip: got %+v, want %+v", *decoded, original)
		}
	}
}

func TestOversizedMessagesRejected(t *testing.T) {
	if _, err := NewFixed(msgtype.Dummy, make([]byte, MaxBodySize)); err != nil {
		t.Errorf("NewFixed at the limit: %v", err)
	}
	if _, err := NewFixed(msgtype.Dummy, make([]byte, MaxBodySize+1)); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("NewFixed over the limit: error = %v, want ErrMessageTooLarge", err)
	}
	name := strings.Repeat("x", MaxBodySize)
	if _, err := NewStringMessage(msgtype.GNSLookup, []byte{0, 0}, name); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("NewStringMessage over the limit: error = %v, want ErrMessageTooLarge", err)
	}
}

func TestStringMessageChunks(t *testing.T) {
	prefix := NewBuilder(4).Uint16(4).Uint16(0).Bytes()
	compound, err := NewStringMessage(msgtype.IdentityGetDefault, prefix, "gns")
	if err != nil {
		t.Fatalf("NewStringMessage: %v", err)
	}
	chunks := compound.Chunks()
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if !bytes.Equal(chunks[0], []byte{0, 12, 0x02, 0x73, 0, 4, 0, 0}) {
		t.Errorf("head chunk = %v", chunks[0])
	}
	if string(chunks[1]) != "gns" || !bytes.Equal(chunks[2], []byte{0}) {
		t.Errorf("payload chunks = %q, %v", chunks[1], chunks[2])
	}
	if compound.Len() != 12 || len(compound.Bytes()) != 12 {
		t.Errorf("Len() = %d, len(Bytes()) = %d, want 12", compound.Len(), len(compound.Bytes()))
	}

	decoded, err := Expect[namedMessage](compound.MessageType(), compound.Bytes()[HeaderSize:])
	if err != nil {
		t.Fatalf("Expect: %v", err)
	}
	if decoded.Name != "gns" {
		t.Errorf("Name = %q, want gns", decoded.Name)
	}
}

func TestStringMessageRejectsEmbeddedNUL(t *testing.T) {
	if _, err := NewStringMessage(msgtype.IdentityGetDefault, nil, "a\x00b"); err == nil {
		t.Fatal("expected error for embedded NUL")
	}
}

func TestNameLengthMismatch(t *testing.T) {
	// name_len claims 6 bytes but only "foo\0" follows.
	compound, err := NewCompound(msgtype.IdentityGetDefault, NewBuilder(4).Uint16(6).Uint16(0).Bytes(), []byte("foo"), []byte{0})
	if err != nil {
		t.Fatalf("NewCompound: %v", err)
	}
	_, err = Expect[namedMessage](compound.MessageType(), compound.Bytes()[HeaderSize:])
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("error = %v, want ErrParseFailure", err)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error %T is not *ParseError", err)
	}
	if parseErr.Field != "name" || parseErr.Type != msgtype.IdentityGetDefault {
		t.Errorf("ParseError = %+v", parseErr)
	}
}

func TestExpectWrongType(t *testing.T) {
	_, err := Expect[pingMessage](msgtype.Dummy2, nil)
	var unexpected *UnexpectedMessageError
	if !errors.As(err, &unexpected) {
		t.Fatalf("error = %v, want *UnexpectedMessageError", err)
	}
	if unexpected.Got != msgtype.Dummy2 || len(unexpected.Want) != 1 || unexpected.Want[0] != msgtype.Dummy {
		t.Errorf("UnexpectedMessageError = %+v", unexpected)
	}
	if !errors.Is(err, ErrUnexpectedMessage) {
		t.Error("errors.Is(err, ErrUnexpectedMessage) = false")
	}
}

// countingMessage records whether DecodeBody was ever called.
type countingMessage struct{}

var countingDecodes int

func (*countingMessage) MessageType() msgtype.Type { return msgtype.Test }

func (*countingMessage) DecodeBody([]byte) error {
	countingDecodes++
	return nil
}

func TestExpectEither(t *testing.T) {
	nameBody := NewBuilder(8).Uint16(4).Uint16(0).Raw([]byte("ego\x00")).Bytes()
	either, err := ExpectEither[namedMessage, errorMessage](msgtype.IdentityGetDefault, nameBody)
	if err != nil {
		t.Fatalf("ExpectEither(first): %v", err)
	}
	if either.First == nil || either.Second != nil || either.First.Name != "ego" {
		t.Errorf("first alternative: %+v", either)
	}

	either, err = ExpectEither[namedMessage, errorMessage](msgtype.IdentityResultCode, []byte{0, 0, 0, 9})
	if err != nil {
		t.Fatalf("ExpectEither(second): %v", err)
	}
	if either.Second == nil || either.First != nil || either.Second.Code != 9 {
		t.Errorf("second alternative: %+v", either)
	}
}

func TestExpectEitherNeitherMatches(t *testing.T) {
	countingDecodes = 0
	_, err := ExpectEither[countingMessage, countingMessage](msgtype.Dummy, []byte{1, 2, 3})
	if !errors.Is(err, ErrUnexpectedMessage) {
		t.Fatalf("error = %v, want ErrUnexpectedMessage", err)
	}
	if countingDecodes != 0 {
		t.Errorf("DecodeBody called %d times for an unmatched type", countingDecodes)
	}

	_, err = ExpectEither[namedMessage, errorMessage](msgtype.GNSLookupResult, nil)
	var unexpected *UnexpectedMessageError
	if !errors.As(err, &unexpected) || len(unexpected.Want) != 2 {
		t.Fatalf("error = %v, want two-way UnexpectedMessageError", err)
	}
}

func TestParsePrefixAndString(t *testing.T) {
	tests := []struct {
		name    string
		body    []byte
		want    string
		wantErr bool
	}{
		{"terminated", []byte{1, 2, 'a', 'b', 0}, "ab", false},
		{"empty remainder", []byte{1, 2}, "", false},
		{"only terminator", []byte{1, 2, 0}, "", false},
		{"short prefix", []byte{1}, "", true},
		{"unterminated", []byte{1, 2, 'a', 'b'}, "", true},
		{"embedded NUL", []byte{1, 2, 'a', 0, 'b', 0}, "", true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			prefix, text, err := ParsePrefixAndString(test.body, 2)
			if test.wantErr {
				if !errors.Is(err, ErrParseFailure) {
					t.Fatalf("error = %v, want ErrParseFailure", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(prefix, []byte{1, 2}) || text != test.want {
				t.Errorf("got (%v, %q), want ([1 2], %q)", prefix, text, test.want)
			}
		})
	}
}

func TestParsePrefixAndRecords(t *testing.T) {
	body := []byte{0, 2, 0xA, 0xB, 0xC, 0xD}
	prefix, records, err := ParsePrefixAndRecords(body, 2, 2, 2)
	if err != nil {
		t.Fatalf("ParsePrefixAndRecords: %v", err)
	}
	if !bytes.Equal(prefix, []byte{0, 2}) || len(records) != 2 ||
		!bytes.Equal(records[0], []byte{0xA, 0xB}) || !bytes.Equal(records[1], []byte{0xC, 0xD}) {
		t.Errorf("got prefix %v records %v", prefix, records)
	}

	for _, count := range []int{3, 1 << 30, 1} {
		if _, _, err := ParsePrefixAndRecords(body, 2, count, 2); !errors.Is(err, ErrParseFailure) {
			t.Errorf("count %d: error = %v, want ErrParseFailure", count, err)
		}
	}
	if _, _, err := ParsePrefixAndRecords(body[:1], 2, 0, 2); !errors.Is(err, ErrParseFailure) {
		t.Errorf("short prefix: error = %v, want ErrParseFailure", err)
	}
}

func TestReaderStickyError(t *testing.T) {
	reader := NewReader([]byte{0, 1, 2})
	if got := reader.Uint16("first"); got != 1 {
		t.Errorf("first = %d, want 1", got)
	}
	if got := reader.Uint32("second"); got != 0 {
		t.Errorf("second = %d, want 0 after overrun", got)
	}
	if got := reader.Uint8("third"); got != 0 {
		t.Errorf("third = %d, want 0 after sticky failure", got)
	}
	var parseErr *ParseError
	if !errors.As(reader.Err(), &parseErr) {
		t.Fatalf("Err() = %v, want *ParseError", reader.Err())
	}
	if parseErr.Field != "second" || parseErr.Offset != 2 || parseErr.Need != 4 || parseErr.Have != 1 {
		t.Errorf("ParseError = %+v", parseErr)
	}
}

func TestReaderCString(t *testing.T) {
	reader := NewReader([]byte("tcp\x00udp\x00rest"))
	if got := reader.CString("first"); got != "tcp" {
		t.Errorf("first = %q", got)
	}
	if got := reader.CString("second"); got != "udp" {
		t.Errorf("second = %q", got)
	}
	if got := reader.CString("third"); got != "" || reader.Err() == nil {
		t.Errorf("unterminated CString = %q, err %v", got, reader.Err())
	}
}

// TestTruncatedBodiesFail decodes every prefix of a valid body and
// requires a parse failure for all but the full length.
func TestTruncatedBodiesFail(t *testing.T) {
	full := (&pingMessage{Sequence: 42, Flags: 3}).encode(t).Body()
	for length := 0; length < len(full); length++ {
		_, err := Expect[pingMessage](msgtype.Dummy, full[:length])
		if !errors.Is(err, ErrParseFailure) {
			t.Errorf("length %d: error = %v, want ErrParseFailure", length, err)
		}
	}

	named := NewBuilder(8).Uint16(4).Uint16(0).Raw([]byte("ego\x00")).Bytes()
	for length := 0; length < len(named); length++ {
		if _, err := Expect[namedMessage](msgtype.IdentityGetDefault, named[:length]); err == nil {
			t.Errorf("named length %d: expected failure", length)
		}
	}
}

func FuzzNamedMessage(f *testing.F) {
	f.Add([]byte{0, 4, 0, 0, 'e', 'g', 'o', 0})
	f.Add([]byte{0, 6, 0, 0, 'f', 'o', 'o', 0})
	f.Add([]byte{0xFF, 0xFF})
	f.Fuzz(func(t *testing.T, body []byte) {
		decoded, err := Expect[namedMessage](msgtype.IdentityGetDefault, body)
		if err != nil {
			if !errors.Is(err, ErrParseFailure) {
				t.Fatalf("non-parse error: %v", err)
			}
			return
		}
		if strings.IndexByte(decoded.Name, 0) >= 0 {
			t.Fatalf("decoded name contains NUL: %q", decoded.Name)
		}
	})
}

func FuzzParsePrefixAndRecords(f *testing.F) {
	f.Add([]byte{0, 2, 1, 2, 3, 4}, 2, 2)
	f.Fuzz(func(t *testing.T, body []byte, count, recordSize int) {
		_, records, err := ParsePrefixAndRecords(body, 2, count, recordSize)
		if err != nil {
			return
		}
		if len(records) != count {
			t.Fatalf("got %d records, want %d", len(records), count)
		}
	})
}
