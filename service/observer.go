// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import "github.com/bureau-foundation/gnunet/lib/msgtype"

// Direction says which way a message travelled.
type Direction uint8

const (
	Sent Direction = iota + 1
	Received
)

func (d Direction) String() string {
	switch d {
	case Sent:
		return "sent"
	case Received:
		return "received"
	default:
		return "unknown"
	}
}

// Event describes one message that crossed a connection.
type Event struct {
	Service   string
	Direction Direction
	Type      msgtype.Type
	// Body excludes the header. It aliases connection buffers and must
	// be copied if retained.
	Body []byte
}

// Observer receives an Event for every message a connection sends or
// receives. Implementations must not block.
type Observer interface {
	ObserveMessage(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// ObserveMessage calls f.
func (f ObserverFunc) ObserveMessage(event Event) { f(event) }
