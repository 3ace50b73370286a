// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cadet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service"
)

// ServiceName is the configuration section of the CADET daemon.
const ServiceName = "cadet"

// firstLocalID is the lowest channel id this client allocates.
const firstLocalID ChannelID = 0x80000000

// ErrUnknownChannel is returned by DestroyChannel for a channel that
// is not open.
var ErrUnknownChannel = errors.New("cadet: unknown channel")

// ChannelID identifies a channel on one client connection.
type ChannelID uint32

// Local reports whether the id was allocated by this client.
func (id ChannelID) Local() bool { return id >= firstLocalID }

func (id ChannelID) String() string { return fmt.Sprintf("%#08x", uint32(id)) }

// ChannelOptions are the reliability options of a channel.
type ChannelOptions uint32

const (
	// NoBuffer asks for minimal buffering on the path.
	NoBuffer ChannelOptions = 1
	// Reliable asks for retransmission of lost messages.
	Reliable ChannelOptions = 2
	// OutOfOrder allows delivery out of send order.
	OutOfOrder ChannelOptions = 4
)

func (o ChannelOptions) String() string {
	if o == 0 {
		return "default"
	}
	var names []string
	if o&NoBuffer != 0 {
		names = append(names, "no-buffer")
	}
	if o&Reliable != 0 {
		names = append(names, "reliable")
	}
	if o&OutOfOrder != 0 {
		names = append(names, "out-of-order")
	}
	if rest := o &^ (NoBuffer | Reliable | OutOfOrder); rest != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// Channel is an open channel.
type Channel struct {
	ID      ChannelID
	Peer    peer.Identity
	Port    uint32
	Options ChannelOptions

	done chan struct{}
}

// Done is closed when the channel is destroyed by either side or the
// connection to the daemon ends.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Client owns one connection to the CADET daemon.
type Client struct {
	correlator *service.Correlator
	logger     *slog.Logger

	mutex    sync.Mutex
	nextID   ChannelID
	channels map[ChannelID]*Channel
}

// Connect dials the CADET daemon and registers ports as the ports
// remote peers may open channels to.
func Connect(ctx context.Context, resolver service.Resolver, ports []uint32, opts ...service.Option) (*Client, error) {
	conn, err := service.Connect(ctx, resolver, ServiceName, opts...)
	if err != nil {
		return nil, err
	}
	client, err := New(ctx, conn, ports)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// New sends CADET_LOCAL_CONNECT on an established connection and
// starts tracking channels. The client owns the connection.
func New(ctx context.Context, conn *service.Connection, ports []uint32, opts ...service.CorrelatorOption) (*Client, error) {
	request, err := newConnectMessage(ports)
	if err != nil {
		return nil, err
	}
	if err := conn.SendMessage(ctx, request); err != nil {
		return nil, fmt.Errorf("cadet: registering ports: %w", err)
	}

	client := &Client{
		logger:   conn.Logger(),
		nextID:   firstLocalID,
		channels: make(map[ChannelID]*Channel),
	}
	opts = append(opts, service.WithUnsolicited(client.handle))
	client.correlator = service.NewCorrelator(conn, uncorrelated, opts...)
	go client.closeAllWhenDone()
	return client, nil
}

func uncorrelated(msgtype.Type, []byte) (uint32, bool) { return 0, false }

// Close closes the connection. Every open channel's Done is closed.
func (c *Client) Close() error { return c.correlator.Close() }

// OpenPort registers one more port for inbound channels.
func (c *Client) OpenPort(ctx context.Context, port uint32) error {
	if err := c.send(ctx, newPortMessage(msgtype.CadetLocalPortOpen, port)); err != nil {
		return fmt.Errorf("cadet: opening port %d: %w", port, err)
	}
	return nil
}

// ClosePort stops accepting inbound channels on port.
func (c *Client) ClosePort(ctx context.Context, port uint32) error {
	if err := c.send(ctx, newPortMessage(msgtype.CadetLocalPortClose, port)); err != nil {
		return fmt.Errorf("cadet: closing port %d: %w", port, err)
	}
	return nil
}

// CreateChannel opens a channel to port on target.
func (c *Client) CreateChannel(ctx context.Context, target peer.Identity, port uint32, options ChannelOptions) (*Channel, error) {
	channel := &Channel{Peer: target, Port: port, Options: options, done: make(chan struct{})}

	c.mutex.Lock()
	channel.ID = c.allocate()
	c.channels[channel.ID] = channel
	c.mutex.Unlock()

	if err := c.send(ctx, newChannelCreateMessage(channel.ID, target, port, options)); err != nil {
		c.remove(channel.ID)
		return nil, fmt.Errorf("cadet: creating channel to %s port %d: %w", target.Short(), port, err)
	}
	c.logger.Debug("channel created", "service", ServiceName, "id", channel.ID, "port", port)
	return channel, nil
}

// DestroyChannel closes channel.
func (c *Client) DestroyChannel(ctx context.Context, channel *Channel) error {
	if !c.remove(channel.ID) {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, channel.ID)
	}
	if err := c.send(ctx, newChannelDestroyMessage(channel.ID)); err != nil {
		return fmt.Errorf("cadet: destroying channel %s: %w", channel.ID, err)
	}
	return nil
}

// Channels returns the open channels ordered by id.
func (c *Client) Channels() []*Channel {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	channels := make([]*Channel, 0, len(c.channels))
	for _, channel := range c.channels {
		channels = append(channels, channel)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	return channels
}

func (c *Client) send(ctx context.Context, request service.Outbound) error {
	select {
	case <-c.correlator.Done():
		return c.correlator.Err()
	default:
	}
	return c.correlator.Connection().SendMessage(ctx, request)
}

// allocate returns the next free local id, wrapping within the local
// range. Must be called with c.mutex held.
func (c *Client) allocate() ChannelID {
	for {
		id := c.nextID
		c.nextID++
		if c.nextID < firstLocalID {
			c.nextID = firstLocalID
		}
		if _, used := c.channels[id]; !used {
			return id
		}
	}
}

// remove forgets a channel and closes its Done. It reports whether the
// channel was open.
func (c *Client) remove(id ChannelID) bool {
	c.mutex.Lock()
	channel, found := c.channels[id]
	delete(c.channels, id)
	c.mutex.Unlock()
	if found {
		close(channel.done)
	}
	return found
}

// handle runs on the read loop for every message from the daemon.
func (c *Client) handle(received service.Message) {
	switch received.Type {
	case msgtype.CadetLocalChannelCreate:
		created, err := message.Expect[channelCreateMessage](received.Type, received.Body)
		if err != nil {
			c.logger.Debug("ignoring malformed inbound channel", "service", ServiceName, "error", err)
			return
		}
		channel := created.channel
		channel.done = make(chan struct{})
		c.mutex.Lock()
		_, exists := c.channels[channel.ID]
		if !exists {
			c.channels[channel.ID] = &channel
		}
		c.mutex.Unlock()
		if exists {
			c.logger.Debug("ignoring inbound channel with an id in use", "service", ServiceName, "id", channel.ID)
			return
		}
		c.logger.Debug("inbound channel", "service", ServiceName, "id", channel.ID, "port", channel.Port)

	case msgtype.CadetLocalChannelDestroy:
		destroyed, err := message.Expect[channelDestroyMessage](received.Type, received.Body)
		if err != nil {
			c.logger.Debug("ignoring malformed channel destroy", "service", ServiceName, "error", err)
			return
		}
		if c.remove(destroyed.id) {
			c.logger.Debug("channel destroyed by daemon", "service", ServiceName, "id", destroyed.id)
		}

	default:
		c.logger.Debug("ignoring message", "service", ServiceName, "type", received.Type)
	}
}

// closeAllWhenDone closes every channel once the read loop exits.
func (c *Client) closeAllWhenDone() {
	<-c.correlator.Done()
	c.mutex.Lock()
	channels := c.channels
	c.channels = make(map[ChannelID]*Channel)
	c.mutex.Unlock()
	for _, channel := range channels {
		close(channel.done)
	}
}
