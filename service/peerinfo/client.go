// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peerinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/gnunet/lib/hello"
	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service"
)

// ServiceName is the configuration section of the peerinfo daemon.
const ServiceName = "peerinfo"

// ErrStop may be returned by an Iterate callback to end the iteration
// early without an error. The rest of the stream is discarded, so the
// client fails later calls with service.ErrSequenceLost.
var ErrStop = errors.New("peerinfo: stop iteration")

// Info is one known peer.
type Info struct {
	Peer peer.Identity
	// Hello is nil when the daemon knows the peer but has no HELLO
	// for it.
	Hello *hello.Hello
}

// Client queries the peerinfo daemon over one connection.
type Client struct {
	sequencer *service.Sequencer

	// IncludeFriendOnly asks the daemon to also report peers whose
	// HELLO is marked friend-only. Set it before the first query.
	IncludeFriendOnly bool
}

// Connect dials the peerinfo daemon.
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

// Iterate calls each for every peer the daemon reports, in order.
// A nil id asks for all known peers; otherwise only id is reported, if
// known. An error from each ends the iteration and is returned, except
// ErrStop, which ends it with a nil result.
func (c *Client) Iterate(ctx context.Context, id *peer.Identity, each func(Info) error) error {
	request := newGetAllMessage(c.IncludeFriendOnly)
	if id != nil {
		request = newGetMessage(c.IncludeFriendOnly, *id)
	}
	err := c.sequencer.Stream(ctx, request, func(received service.Message) (bool, error) {
		reply, err := message.ExpectEither[infoMessage, infoEndMessage](received.Type, received.Body)
		if err != nil {
			return false, err
		}
		if reply.Second != nil {
			return true, nil
		}
		if err := each(reply.First.info); err != nil {
			return false, err
		}
		return false, nil
	})
	if errors.Is(err, ErrStop) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("peerinfo: iterating peers: %w", err)
	}
	return nil
}

// Peers returns every known peer.
func (c *Client) Peers(ctx context.Context) ([]Info, error) {
	var peers []Info
	err := c.Iterate(ctx, nil, func(info Info) error {
		peers = append(peers, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return peers, nil
}

// Get returns what the daemon knows about id, with ok false when it
// does not know the peer.
func (c *Client) Get(ctx context.Context, id peer.Identity) (info Info, ok bool, err error) {
	err = c.Iterate(ctx, &id, func(reported Info) error {
		if reported.Peer == id && !ok {
			info, ok = reported, true
		}
		return nil
	})
	if err != nil {
		return Info{}, false, err
	}
	return info, ok, nil
}
