// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport is a client for the transport daemon. It covers
// the start handshake, which yields the local peer's own HELLO.
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/bureau-foundation/gnunet/lib/hello"
	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service"
)

// ServiceName is the configuration section of the transport daemon.
const ServiceName = "transport"

// Start option bits.
const (
	optionCheckSelf uint32 = 1
)

// options, self.
const startSize = 4 + peer.KeySize

func newStartMessage(self *peer.Identity) *message.Fixed {
	var options uint32
	var id peer.Identity
	if self != nil {
		options |= optionCheckSelf
		id = *self
	}
	return message.MustFixed(msgtype.TransportStart,
		message.NewBuilder(startSize).Uint32(options).Raw(id[:]).Bytes())
}

// Client talks to the transport daemon over one connection.
type Client struct {
	sequencer *service.Sequencer

	// ExpectedSelf, when set before the first SelfHello, makes the
	// daemon refuse the connection if it runs as a different peer.
	ExpectedSelf *peer.Identity

	mutex sync.Mutex
	self  *hello.Hello
}

// Connect dials the transport daemon.
func Connect(ctx context.Context, resolver service.Resolver, opts ...service.Option) (*Client, error) {
	conn, err := service.Connect(ctx, resolver, ServiceName, opts...)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn *service.Connection) *Client {
	return &Client{sequencer: service.NewSequencer(conn)}
}

// Close closes the connection.
func (c *Client) Close() error { return c.sequencer.Close() }

// SelfHello returns the HELLO of the local peer. The first call sends
// TRANSPORT_START and waits for the daemon's HELLO; later calls return
// the same value. Peer connect and disconnect notifications that
// arrive first are skipped.
func (c *Client) SelfHello(ctx context.Context) (*hello.Hello, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.self != nil {
		return c.self, nil
	}

	var self *hello.Hello
	err := c.sequencer.Stream(ctx, newStartMessage(c.ExpectedSelf), func(received service.Message) (bool, error) {
		switch received.Type {
		case msgtype.TransportConnect, msgtype.TransportDisconnect:
			return false, nil
		}
		decoded, err := message.Expect[hello.Hello](received.Type, received.Body)
		if err != nil {
			return false, err
		}
		self = decoded
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("transport: starting: %w", err)
	}
	c.self = self
	return self, nil
}
