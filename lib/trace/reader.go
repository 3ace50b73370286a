// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/gnunet/lib/codec"
)

// Reader reads records from a capture.
type Reader struct {
	compression Compression
	decoder     *codec.Decoder
	release     func()
	file        io.Closer
}

// NewReader checks the capture header on r and prepares to decode.
func NewReader(r io.Reader) (*Reader, error) {
	buffered := bufio.NewReader(r)
	var header [headerSize]byte
	if _, err := io.ReadFull(buffered, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrNotCapture
		}
		return nil, fmt.Errorf("trace: reading header: %w", err)
	}
	if [8]byte(header[:len(magic)]) != magic {
		return nil, ErrNotCapture
	}

	compression := Compression(header[len(magic)])
	decompressed, release, err := compression.decompressor(buffered)
	if err != nil {
		return nil, err
	}
	return &Reader{
		compression: compression,
		decoder:     codec.NewDecoder(decompressed),
		release:     release,
	}, nil
}

// Open opens the capture at path. Close closes the file.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.file = file
	return reader, nil
}

// Compression returns the capture's compression tag.
func (r *Reader) Compression() Compression { return r.compression }

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var record Record
	if err := r.decoder.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("trace: decoding record: %w", err)
	}
	return record, nil
}

// All reads every remaining record.
func (r *Reader) All() ([]Record, error) {
	var records []Record
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// Close releases decoder resources and the file opened by Open.
func (r *Reader) Close() error {
	r.release()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
