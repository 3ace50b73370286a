// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

const (
	// HeaderSize is the size of the envelope prefix on every message.
	HeaderSize = 4

	// MaxLength is the largest total message length the 16-bit length
	// field can express.
	MaxLength = 65535

	// MaxBodySize is the largest body that fits in one message.
	MaxBodySize = MaxLength - HeaderSize
)

// ErrMessageTooLarge is returned when constructing a message whose
// total length would not fit the 16-bit length field.
var ErrMessageTooLarge = errors.New("message: length exceeds 65535 bytes")

// Header is the 4-byte envelope prefix.
type Header struct {
	// Length is the total message length, header included.
	Length uint16

	// Type is the wire type of the body.
	Type msgtype.Type
}

// BodyLength returns the number of body bytes the header announces.
// It is zero for headers shorter than HeaderSize, which Valid reports.
func (h Header) BodyLength() int {
	if h.Length < HeaderSize {
		return 0
	}
	return int(h.Length) - HeaderSize
}

// Valid reports whether the header's length covers at least the
// header itself.
func (h Header) Valid() bool {
	return h.Length >= HeaderSize
}

// AppendTo appends the big-endian encoding of h to dst.
func (h Header) AppendTo(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint16(dst, h.Length)
	return binary.BigEndian.AppendUint16(dst, uint16(h.Type))
}

// String renders the header for diagnostics.
func (h Header) String() string {
	return fmt.Sprintf("%s (length %d)", h.Type, h.Length)
}

// DecodeHeader reads a header from the first HeaderSize bytes of data.
// It does not check Valid; a connection decides what a short length
// means for the stream.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, &ParseError{
			Field:  "header",
			Offset: 0,
			Need:   HeaderSize,
			Have:   len(data),
		}
	}
	return Header{
		Length: binary.BigEndian.Uint16(data[0:2]),
		Type:   msgtype.Type(binary.BigEndian.Uint16(data[2:4])),
	}, nil
}

// HeaderFor builds the header for a message of the given type whose
// body (everything after the header) is bodySize bytes.
func HeaderFor(typ msgtype.Type, bodySize int) (Header, error) {
	if bodySize < 0 || bodySize > MaxBodySize {
		return Header{}, fmt.Errorf("%w: %s with %d body bytes", ErrMessageTooLarge, typ, bodySize)
	}
	return Header{Length: uint16(HeaderSize + bodySize), Type: typ}, nil
}
