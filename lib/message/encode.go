// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

// Encodable is a message whose wire form is one contiguous buffer,
// header included.
type Encodable interface {
	MessageType() msgtype.Type
	Bytes() []byte
}

// CompoundEncodable is a message whose wire form is an ordered list of
// chunks. The first chunk starts with the header; the header's length
// accounts for every chunk.
type CompoundEncodable interface {
	MessageType() msgtype.Type
	Chunks() [][]byte
}

// Fixed is a single-buffer message.
type Fixed struct {
	typ  msgtype.Type
	data []byte
}

// NewFixed builds a message from a complete body. The header length is
// computed from len(body).
func NewFixed(typ msgtype.Type, body []byte) (*Fixed, error) {
	header, err := HeaderFor(typ, len(body))
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, int(header.Length))
	data = header.AppendTo(data)
	data = append(data, body...)
	return &Fixed{typ: typ, data: data}, nil
}

// MustFixed is NewFixed for bodies whose size is known at compile
// time. It panics if the body is too large.
func MustFixed(typ msgtype.Type, body []byte) *Fixed {
	fixed, err := NewFixed(typ, body)
	if err != nil {
		panic(err)
	}
	return fixed
}

// MessageType returns the wire type.
func (f *Fixed) MessageType() msgtype.Type { return f.typ }

// Bytes returns the wire form, header included. The caller must not
// modify it.
func (f *Fixed) Bytes() []byte { return f.data }

// Body returns the bytes after the header.
func (f *Fixed) Body() []byte { return f.data[HeaderSize:] }

// Compound is a message assembled from independently owned chunks.
type Compound struct {
	typ    msgtype.Type
	length int
	chunks [][]byte
}

// NewCompound builds a compound message: the header and prefix form
// the first chunk, each payload follows as its own chunk. Payload
// slices are referenced, not copied.
func NewCompound(typ msgtype.Type, prefix []byte, payloads ...[]byte) (*Compound, error) {
	bodySize := len(prefix)
	for _, payload := range payloads {
		bodySize += len(payload)
	}
	header, err := HeaderFor(typ, bodySize)
	if err != nil {
		return nil, err
	}

	head := make([]byte, 0, HeaderSize+len(prefix))
	head = header.AppendTo(head)
	head = append(head, prefix...)

	chunks := make([][]byte, 0, 1+len(payloads))
	chunks = append(chunks, head)
	for _, payload := range payloads {
		if len(payload) > 0 {
			chunks = append(chunks, payload)
		}
	}
	return &Compound{typ: typ, length: int(header.Length), chunks: chunks}, nil
}

var nulTerminator = []byte{0}

// NewStringMessage builds the "prefix, text, NUL" shape used by most
// service requests that carry a name. The text must not contain a NUL
// byte.
func NewStringMessage(typ msgtype.Type, prefix []byte, text string) (*Compound, error) {
	if strings.IndexByte(text, 0) >= 0 {
		return nil, fmt.Errorf("message: %s text contains a NUL byte", typ)
	}
	return NewCompound(typ, prefix, []byte(text), nulTerminator)
}

// MessageType returns the wire type.
func (c *Compound) MessageType() msgtype.Type { return c.typ }

// Chunks returns the chunk list in wire order.
func (c *Compound) Chunks() [][]byte { return c.chunks }

// Len returns the total wire length.
func (c *Compound) Len() int { return c.length }

// Bytes concatenates the chunks. Connections never call this; it
// exists for captures and tests.
func (c *Compound) Bytes() []byte {
	data := make([]byte, 0, c.length)
	for _, chunk := range c.chunks {
		data = append(data, chunk...)
	}
	return data
}

// Builder appends big-endian fields to a body buffer.
type Builder struct {
	buf []byte
}

// NewBuilder returns a Builder with room for size bytes.
func NewBuilder(size int) *Builder {
	return &Builder{buf: make([]byte, 0, size)}
}

// Uint16 appends v.
func (b *Builder) Uint16(v uint16) *Builder {
	b.buf = binary.BigEndian.AppendUint16(b.buf, v)
	return b
}

// Uint32 appends v.
func (b *Builder) Uint32(v uint32) *Builder {
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return b
}

// Uint64 appends v.
func (b *Builder) Uint64(v uint64) *Builder {
	b.buf = binary.BigEndian.AppendUint64(b.buf, v)
	return b
}

// Int16 appends v in two's complement.
func (b *Builder) Int16(v int16) *Builder { return b.Uint16(uint16(v)) }

// Int32 appends v in two's complement.
func (b *Builder) Int32(v int32) *Builder { return b.Uint32(uint32(v)) }

// Raw appends data unchanged.
func (b *Builder) Raw(data []byte) *Builder {
	b.buf = append(b.buf, data...)
	return b
}

// Len returns the number of bytes appended so far.
func (b *Builder) Len() int { return len(b.buf) }

// Bytes returns the accumulated body.
func (b *Builder) Bytes() []byte { return b.buf }
