// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"bytes"
	"encoding/binary"
)

// Reader is a bounds-checked cursor over a message body. The first
// failed read records a *ParseError and every later read returns the
// zero value, so a decoder can read all fields and check Err once:
//
//	reader := message.NewReader(body)
//	id := reader.Uint32("id")
//	count := reader.Uint32("rd_count")
//	if err := reader.Err(); err != nil {
//		return err
//	}
type Reader struct {
	data   []byte
	offset int
	err    error
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first failure, or nil.
func (r *Reader) Err() error { return r.err }

// Offset returns the current position.
func (r *Reader) Offset() int { return r.offset }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.data) - r.offset
}

// take returns the next n bytes, or nil after recording a failure.
func (r *Reader) take(field string, n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.offset < n {
		r.err = &ParseError{Field: field, Offset: r.offset, Need: n, Have: len(r.data) - r.offset}
		return nil
	}
	start := r.offset
	r.offset += n
	return r.data[start:r.offset:r.offset]
}

// Fail records a semantic failure at the current offset. It has no
// effect if a failure is already recorded.
func (r *Reader) Fail(field, reason string) {
	if r.err == nil {
		r.err = &ParseError{Field: field, Offset: r.offset, Reason: reason}
	}
}

// Uint8 reads one byte.
func (r *Reader) Uint8(field string) uint8 {
	if b := r.take(field, 1); b != nil {
		return b[0]
	}
	return 0
}

// Uint16 reads a big-endian uint16.
func (r *Reader) Uint16(field string) uint16 {
	if b := r.take(field, 2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32(field string) uint32 {
	if b := r.take(field, 4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

// Uint64 reads a big-endian uint64.
func (r *Reader) Uint64(field string) uint64 {
	if b := r.take(field, 8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

// Int16 reads a big-endian two's complement int16.
func (r *Reader) Int16(field string) int16 { return int16(r.Uint16(field)) }

// Int32 reads a big-endian two's complement int32.
func (r *Reader) Int32(field string) int32 { return int32(r.Uint32(field)) }

// Bytes returns the next n bytes without copying. The slice aliases
// the body and has its capacity clipped to n.
func (r *Reader) Bytes(field string, n int) []byte {
	return r.take(field, n)
}

// Copy fills dst from the next len(dst) bytes.
func (r *Reader) Copy(field string, dst []byte) {
	if b := r.take(field, len(dst)); b != nil {
		copy(dst, b)
	}
}

// Skip advances past n bytes.
func (r *Reader) Skip(field string, n int) {
	r.take(field, n)
}

// CString reads a NUL-terminated string and consumes the terminator.
// A missing terminator is a failure.
func (r *Reader) CString(field string) string {
	if r.err != nil {
		return ""
	}
	end := bytes.IndexByte(r.data[r.offset:], 0)
	if end < 0 {
		r.Fail(field, "missing NUL terminator")
		return ""
	}
	text := string(r.data[r.offset : r.offset+end])
	r.offset += end + 1
	return text
}

// SizedCString reads a string of exactly size bytes whose last byte is
// the NUL terminator and which contains no other NUL. A size of zero
// yields the empty string.
func (r *Reader) SizedCString(field string, size int) string {
	b := r.take(field, size)
	if r.err != nil || size == 0 {
		return ""
	}
	if b[size-1] != 0 {
		r.offset -= size
		r.Fail(field, "missing NUL terminator")
		return ""
	}
	if bytes.IndexByte(b[:size-1], 0) >= 0 {
		r.offset -= size
		r.Fail(field, "embedded NUL byte")
		return ""
	}
	return string(b[:size-1])
}

// Rest returns all unread bytes and moves to the end.
func (r *Reader) Rest() []byte {
	if r.err != nil {
		return nil
	}
	rest := r.data[r.offset:len(r.data):len(r.data)]
	r.offset = len(r.data)
	return rest
}

// End records a failure if unread bytes remain, then returns Err.
func (r *Reader) End() error {
	if r.err == nil && r.offset != len(r.data) {
		r.Fail("trailer", "unexpected trailing bytes")
	}
	return r.err
}
