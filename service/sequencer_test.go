// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/testutil"
)

func TestSequencerExchange(t *testing.T) {
	connection, daemon := newPair(t)
	sequencer := NewSequencer(connection)

	done := make(chan Message, 1)
	go func() {
		response, err := sequencer.Exchange(context.Background(), message.MustFixed(msgtype.TransportStart, make([]byte, 36)))
		if err != nil {
			t.Errorf("Exchange: %v", err)
		}
		done <- response
	}()

	if body := daemon.Expect(msgtype.TransportStart); len(body) != 36 {
		t.Errorf("TRANSPORT_START body length %d, want 36", len(body))
	}
	daemon.Write(msgtype.Hello, []byte{0, 0, 0, 0})

	response := testutil.RequireReceive(t, done, 5*time.Second, "exchange response")
	if response.Type != msgtype.Hello {
		t.Errorf("response type %s, want HELLO", response.Type)
	}
}

func TestSequencerStream(t *testing.T) {
	connection, daemon := newPair(t)
	sequencer := NewSequencer(connection)

	go func() {
		daemon.Expect(msgtype.PeerinfoGetAll)
		daemon.Write(msgtype.PeerinfoInfo, []byte{1})
		daemon.Write(msgtype.PeerinfoInfo, []byte{2})
		daemon.Write(msgtype.PeerinfoInfoEnd, nil)
	}()

	var bodies [][]byte
	err := sequencer.Stream(context.Background(), message.MustFixed(msgtype.PeerinfoGetAll, []byte{0, 0, 0, 0}), func(received Message) (bool, error) {
		if received.Type == msgtype.PeerinfoInfoEnd {
			return true, nil
		}
		bodies = append(bodies, received.Body)
		return false, nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(bodies) != 2 || bodies[0][0] != 1 || bodies[1][0] != 2 {
		t.Errorf("bodies = %v", bodies)
	}
}

func TestSequencerDrainsAbandonedExchange(t *testing.T) {
	connection, daemon := newPair(t)
	sequencer := NewSequencer(connection)

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := make(chan error, 1)
	go func() {
		_, err := sequencer.Exchange(ctx, message.MustFixed(msgtype.Dummy, []byte{1}))
		abandoned <- err
	}()
	daemon.Expect(msgtype.Dummy)
	cancel()
	if err := testutil.RequireReceive(t, abandoned, 5*time.Second, "abandoned exchange"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	// The answer to the abandoned request arrives late; the next
	// exchange must skip it and return its own answer.
	daemon.Write(msgtype.Dummy, []byte{1})
	next := make(chan Message, 1)
	go func() {
		response, err := sequencer.Exchange(context.Background(), message.MustFixed(msgtype.Dummy, []byte{2}))
		if err != nil {
			t.Errorf("Exchange: %v", err)
		}
		next <- response
	}()
	daemon.Expect(msgtype.Dummy)
	daemon.Write(msgtype.Dummy, []byte{2})

	response := testutil.RequireReceive(t, next, 5*time.Second, "second exchange")
	if len(response.Body) != 1 || response.Body[0] != 2 {
		t.Errorf("second exchange got %v, want [2]", response.Body)
	}
}

func TestSequencerPoisonedByAbandonedStream(t *testing.T) {
	connection, daemon := newPair(t)
	sequencer := NewSequencer(connection)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() {
		finished <- sequencer.Stream(ctx, message.MustFixed(msgtype.IdentityStart, nil), func(Message) (bool, error) {
			return false, nil
		})
	}()
	daemon.Expect(msgtype.IdentityStart)
	cancel()
	if err := testutil.RequireReceive(t, finished, 5*time.Second, "abandoned stream"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	_, err := sequencer.Exchange(context.Background(), message.MustFixed(msgtype.Dummy, nil))
	if !errors.Is(err, ErrSequenceLost) {
		t.Errorf("Exchange after abandoned stream: %v, want ErrSequenceLost", err)
	}
}
