// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import "bytes"

// SplitPrefix splits body into a prefix of exactly size bytes and the
// remainder. ok is false when body is shorter than size.
func SplitPrefix(body []byte, size int) (prefix, rest []byte, ok bool) {
	if size < 0 || len(body) < size {
		return nil, nil, false
	}
	return body[:size:size], body[size:], true
}

// ParsePrefixAndString splits body into a fixed prefix and a trailing
// string. The trailing bytes must either be empty (yielding "") or end
// in a single NUL that appears nowhere else.
func ParsePrefixAndString(body []byte, size int) (prefix []byte, text string, err error) {
	prefix, rest, ok := SplitPrefix(body, size)
	if !ok {
		return nil, "", &ParseError{Field: "prefix", Need: size, Have: len(body)}
	}
	if len(rest) == 0 {
		return prefix, "", nil
	}
	terminator := bytes.IndexByte(rest, 0)
	switch {
	case terminator < 0:
		return nil, "", &ParseError{Field: "string", Offset: size, Reason: "missing NUL terminator"}
	case terminator != len(rest)-1:
		return nil, "", &ParseError{Field: "string", Offset: size + terminator, Reason: "embedded NUL byte"}
	}
	return prefix, string(rest[:terminator]), nil
}

// ParsePrefixAndRecords splits body into a fixed prefix followed by
// exactly count records of recordSize bytes each. The record slices
// alias body.
func ParsePrefixAndRecords(body []byte, size, count, recordSize int) (prefix []byte, records [][]byte, err error) {
	prefix, rest, ok := SplitPrefix(body, size)
	if !ok {
		return nil, nil, &ParseError{Field: "prefix", Need: size, Have: len(body)}
	}
	if count < 0 || recordSize < 0 || (recordSize == 0 && count > 0) {
		return nil, nil, &ParseError{Field: "records", Offset: size, Reason: "invalid record count or size"}
	}
	// Guard the multiplication: count comes off the wire.
	if recordSize > 0 && count > len(rest)/recordSize {
		return nil, nil, &ParseError{Field: "records", Offset: size, Reason: "declared record count exceeds body"}
	}
	total := count * recordSize
	if len(rest) != total {
		return nil, nil, &ParseError{Field: "records", Offset: size + total, Reason: "unexpected trailing bytes"}
	}
	records = make([][]byte, count)
	for i := range records {
		start := i * recordSize
		records[i] = rest[start : start+recordSize : start+recordSize]
	}
	return prefix, records, nil
}
