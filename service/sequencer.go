// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrSequenceLost is returned by a Sequencer after a stream was
// abandoned partway. The number of messages still owed is unknown, so
// strict ordering can no longer be trusted on that connection.
var ErrSequenceLost = errors.New("service: response sequence lost")

// Sequencer correlates requests with responses by order alone: the
// response to a request is the next message read after it was
// written. Exchanges are serialized, so concurrent callers take turns.
//
// Only use a Sequencer with services that answer every request in
// order and never send unrequested messages on the connection.
type Sequencer struct {
	conn *Connection

	mutex sync.Mutex
	// owed counts responses to exchanges whose callers gave up after
	// writing. They are read and dropped before the next exchange.
	owed int
	lost bool
}

// NewSequencer wraps conn. Nothing else may read from conn afterwards.
func NewSequencer(conn *Connection) *Sequencer {
	return &Sequencer{conn: conn}
}

// Connection returns the underlying connection.
func (s *Sequencer) Connection() *Connection { return s.conn }

// Close closes the underlying connection.
func (s *Sequencer) Close() error { return s.conn.Close() }

// Exchange writes request and returns the next message read.
func (s *Sequencer) Exchange(ctx context.Context, request Outbound) (Message, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.ready(ctx); err != nil {
		return Message{}, err
	}
	if err := s.conn.SendMessage(ctx, request); err != nil {
		return Message{}, err
	}
	response, err := s.conn.Recv(ctx)
	if err != nil && ctx.Err() != nil && !s.conn.Broken() {
		s.owed++
	}
	return response, err
}

// Stream writes request and passes each following message to next
// until next reports done or fails. If ctx ends mid-stream the
// Sequencer is poisoned: every later call returns ErrSequenceLost.
func (s *Sequencer) Stream(ctx context.Context, request Outbound, next func(Message) (done bool, err error)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.conn.SendMessage(ctx, request); err != nil {
		return err
	}
	for {
		received, err := s.conn.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.lost = true
			}
			return err
		}
		done, err := next(received)
		if err != nil {
			// The callback rejected a message; the rest of the stream
			// is still on the wire.
			s.lost = true
			return err
		}
		if done {
			return nil
		}
	}
}

// ready drains responses owed to abandoned exchanges. Must be called
// with s.mutex held.
func (s *Sequencer) ready(ctx context.Context) error {
	if s.lost {
		return fmt.Errorf("service %q: %w", s.conn.name, ErrSequenceLost)
	}
	for s.owed > 0 {
		dropped, err := s.conn.Recv(ctx)
		if err != nil {
			return err
		}
		s.owed--
		s.conn.logger.Debug("dropped response to abandoned exchange", "type", dropped.Type)
	}
	return nil
}
