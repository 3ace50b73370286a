// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

var (
	// ErrParseFailure matches every *ParseError.
	ErrParseFailure = errors.New("message: parse failure")

	// ErrUnexpectedMessage matches every *UnexpectedMessageError.
	ErrUnexpectedMessage = errors.New("message: unexpected message type")
)

// ParseError reports a body that does not have the expected shape.
// The bytes of the message were fully consumed from the stream, so a
// ParseError never desynchronizes the connection it came from.
type ParseError struct {
	// Type is the wire type being decoded. Zero when the failure
	// occurred below Expect (e.g. in a bare Reader).
	Type msgtype.Type

	// Field names the field that could not be read.
	Field string

	// Offset is the body offset at which Field starts.
	Offset int

	// Need and Have are the byte counts required and available at
	// Offset. Both are zero when Reason describes the failure instead.
	Need int
	Have int

	// Reason is a free-form description for failures that are not
	// simple truncation.
	Reason string

	// Err is an underlying error from a custom decoder, if any.
	Err error
}

func (e *ParseError) Error() string {
	var builder strings.Builder
	builder.WriteString("parse ")
	if e.Type != 0 {
		builder.WriteString(e.Type.String())
		builder.WriteByte(' ')
	}
	if e.Field != "" {
		fmt.Fprintf(&builder, "field %q ", e.Field)
	}
	fmt.Fprintf(&builder, "at offset %d: ", e.Offset)
	switch {
	case e.Reason != "":
		builder.WriteString(e.Reason)
	case e.Err != nil:
		builder.WriteString(e.Err.Error())
	default:
		fmt.Fprintf(&builder, "need %d bytes, have %d", e.Need, e.Have)
	}
	return builder.String()
}

// Is makes every ParseError match ErrParseFailure.
func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

func (e *ParseError) Unwrap() error { return e.Err }

// UnexpectedMessageError reports a wire type that matches none of the
// shapes the caller was prepared to decode.
type UnexpectedMessageError struct {
	Got  msgtype.Type
	Want []msgtype.Type
}

func (e *UnexpectedMessageError) Error() string {
	names := make([]string, len(e.Want))
	for i, want := range e.Want {
		names[i] = want.String()
	}
	return fmt.Sprintf("unexpected message %s (%d), want %s", e.Got, uint16(e.Got), strings.Join(names, " or "))
}

// Is makes every UnexpectedMessageError match ErrUnexpectedMessage.
func (e *UnexpectedMessageError) Is(target error) bool { return target == ErrUnexpectedMessage }
