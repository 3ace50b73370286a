// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"errors"

	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

// Decoder is implemented by pointer types of inbound message shapes.
// MessageType must work on a zero value; DecodeBody receives the body
// without the header.
type Decoder interface {
	MessageType() msgtype.Type
	DecodeBody(body []byte) error
}

// decoderPointer constrains P to be *M and a Decoder, so that Expect
// can allocate an M and decode into it.
type decoderPointer[M any] interface {
	*M
	Decoder
}

// Expect decodes body as M if typ is M's wire type. A different typ
// yields *UnexpectedMessageError without touching body; a decode
// failure yields *ParseError.
func Expect[M any, P decoderPointer[M]](typ msgtype.Type, body []byte) (*M, error) {
	result := new(M)
	want := P(result).MessageType()
	if typ != want {
		return nil, &UnexpectedMessageError{Got: typ, Want: []msgtype.Type{want}}
	}
	if err := decodeInto(P(result), typ, body); err != nil {
		return nil, err
	}
	return result, nil
}

// Either holds the outcome of ExpectEither. Exactly one field is
// non-nil after a successful call.
type Either[A, B any] struct {
	First  *A
	Second *B
}

// ExpectEither decodes body as A or B depending on typ. When A and B
// share a wire type, A wins.
func ExpectEither[A, B any, PA decoderPointer[A], PB decoderPointer[B]](typ msgtype.Type, body []byte) (Either[A, B], error) {
	first := new(A)
	second := new(B)
	firstType := PA(first).MessageType()
	secondType := PB(second).MessageType()

	switch typ {
	case firstType:
		if err := decodeInto(PA(first), typ, body); err != nil {
			return Either[A, B]{}, err
		}
		return Either[A, B]{First: first}, nil
	case secondType:
		if err := decodeInto(PB(second), typ, body); err != nil {
			return Either[A, B]{}, err
		}
		return Either[A, B]{Second: second}, nil
	default:
		return Either[A, B]{}, &UnexpectedMessageError{Got: typ, Want: []msgtype.Type{firstType, secondType}}
	}
}

// decodeInto runs target's decoder and normalizes its error to a
// *ParseError tagged with typ.
func decodeInto(target Decoder, typ msgtype.Type, body []byte) error {
	err := target.DecodeBody(body)
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if parseErr.Type == 0 {
			parseErr.Type = typ
		}
		return parseErr
	}
	return &ParseError{Type: typ, Err: err}
}
