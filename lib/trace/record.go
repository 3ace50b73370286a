// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"errors"

	"github.com/bureau-foundation/gnunet/lib/gnstime"
	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/service"
)

// magic opens every capture file.
var magic = [8]byte{'G', 'N', 'I', 'P', 'C', 'T', 'R', '1'}

// headerSize is the magic plus the compression tag.
const headerSize = len(magic) + 1

// ErrNotCapture is returned when a file lacks the capture magic.
var ErrNotCapture = errors.New("trace: not a capture file")

// Record is one captured message.
type Record struct {
	Time      gnstime.Absolute `cbor:"time"`
	Direction string           `cbor:"direction"`
	Service   string           `cbor:"service"`
	Type      uint16           `cbor:"type"`
	Body      []byte           `cbor:"body,omitempty"`
}

// MessageType returns the record's type code.
func (r Record) MessageType() msgtype.Type { return msgtype.Type(r.Type) }

// Header reconstructs the wire header of the captured frame.
func (r Record) Header() message.Header {
	return message.Header{Length: uint16(message.HeaderSize + len(r.Body)), Type: r.MessageType()}
}

// Message returns the record as a service.Message.
func (r Record) Message() service.Message {
	return service.Message{Type: r.MessageType(), Body: r.Body}
}
