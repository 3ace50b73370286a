// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service"
	"github.com/bureau-foundation/gnunet/service/identity"
)

// ServiceName is the configuration section of the GNS daemon.
const ServiceName = "gns"

// MasterZoneSubsystem is the identity subsystem whose default ego
// owns the master zone.
const MasterZoneSubsystem = "gns-master"

var (
	// ErrNameTooLong is returned for names over MaxNameLength bytes.
	ErrNameTooLong = errors.New("gns: name too long")

	// ErrInvalidName is returned for names containing a NUL byte.
	ErrInvalidName = errors.New("gns: name contains a NUL byte")
)

// LocalOptions controls how far the daemon searches.
type LocalOptions int16

const (
	// Default searches the local store and then the DHT.
	Default LocalOptions = 0
	// NoDHT never asks the DHT.
	NoDHT LocalOptions = 1
	// LocalMaster asks the DHT only for names outside the master zone.
	LocalMaster LocalOptions = 2
)

func (o LocalOptions) String() string {
	switch o {
	case Default:
		return "default"
	case NoDHT:
		return "no-dht"
	case LocalMaster:
		return "local-master"
	default:
		return fmt.Sprintf("LocalOptions(%d)", int16(o))
	}
}

// Client multiplexes lookups over one connection to the GNS daemon.
// It is safe for concurrent use.
type Client struct {
	correlator *service.Correlator
	nextID     atomic.Uint32
}

// Connect dials the GNS daemon.
func Connect(ctx context.Context, resolver service.Resolver, opts ...service.Option) (*Client, error) {
	conn, err := service.Connect(ctx, resolver, ServiceName, opts...)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New starts a client on an established connection. The client owns
// the connection from then on.
func New(conn *service.Connection, opts ...service.CorrelatorOption) *Client {
	return &Client{correlator: service.NewCorrelator(conn, lookupID, opts...)}
}

// Correlator returns the underlying correlator.
func (c *Client) Correlator() *service.Correlator { return c.correlator }

// Close closes the connection and fails lookups in flight.
func (c *Client) Close() error { return c.correlator.Close() }

// Lookup resolves name in zone and returns the records of recordType
// (TypeAny for all). A name the daemon cannot resolve yields no
// records and no error.
func (c *Client) Lookup(ctx context.Context, name string, zone peer.PublicKey, recordType RecordType, options LocalOptions) ([]Record, error) {
	return c.LookupShortening(ctx, name, zone, recordType, options, nil)
}

// LookupShortening is Lookup with a private zone key the daemon may use
// to shorten names it resolves. A nil shorten behaves like Lookup.
func (c *Client) LookupShortening(ctx context.Context, name string, zone peer.PublicKey, recordType RecordType, options LocalOptions, shorten *peer.PrivateKey) ([]Record, error) {
	if len(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	if strings.IndexByte(name, 0) >= 0 {
		return nil, ErrInvalidName
	}

	id := c.nextID.Add(1) - 1
	request, err := newLookupMessage(id, name, zone, recordType, options, shorten)
	if err != nil {
		return nil, err
	}
	received, err := c.correlator.Call(ctx, id, request)
	if err != nil {
		return nil, fmt.Errorf("gns: looking up %q: %w", name, err)
	}
	result, err := message.Expect[lookupResultMessage](received.Type, received.Body)
	if err != nil {
		return nil, fmt.Errorf("gns: looking up %q: %w", name, err)
	}
	return result.records, nil
}

// DefaultEgoGetter returns the default ego of an identity subsystem.
// *identity.Client implements it.
type DefaultEgoGetter interface {
	GetDefault(ctx context.Context, subsystem string) (identity.Ego, error)
}

// LookupInMaster resolves name in the zone of the "gns-master" default
// ego.
func LookupInMaster(ctx context.Context, egos DefaultEgoGetter, client *Client, name string, recordType RecordType, options LocalOptions) ([]Record, error) {
	ego, err := egos.GetDefault(ctx, MasterZoneSubsystem)
	if err != nil {
		return nil, fmt.Errorf("gns: finding master zone: %w", err)
	}
	return client.Lookup(ctx, name, ego.PrivateKey.PublicKey(), recordType, options)
}
