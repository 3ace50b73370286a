// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/gnunet/lib/clock"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/netutil"
)

// IDExtractor returns the correlation id embedded in a received
// message. ok is false for messages that carry no id (notifications,
// unrelated message types); those are never matched to a caller.
type IDExtractor func(typ msgtype.Type, body []byte) (id uint32, ok bool)

// State is the read-loop state of a Correlator.
type State int32

const (
	// StateIdle: no read in flight; the loop is about to read.
	StateIdle State = iota
	// StateAwaitingRead: one physical read is outstanding.
	StateAwaitingRead
	// StateDispatching: a message was read and is being delivered.
	StateDispatching
	// StateBroken: the loop has exited. Terminal.
	StateBroken
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingRead:
		return "awaiting-read"
	case StateDispatching:
		return "dispatching"
	case StateBroken:
		return "broken"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// CallMetrics receives correlated call accounting. lib/ipcmetrics
// provides the Prometheus implementation.
type CallMetrics interface {
	CallStarted(service string)
	CallFinished(service string, elapsed time.Duration, err error)
}

// CorrelatorOption configures a Correlator.
type CorrelatorOption func(*Correlator)

// WithUnsolicited registers a handler for messages that match no
// pending request: messages without an id, and responses whose caller
// has gone. It runs on the read goroutine and must not block.
func WithUnsolicited(handler func(Message)) CorrelatorOption {
	return func(c *Correlator) { c.unsolicited = handler }
}

// WithCallMetrics attaches call accounting.
func WithCallMetrics(metrics CallMetrics) CorrelatorOption {
	return func(c *Correlator) { c.metrics = metrics }
}

// WithClock sets the clock used to time calls.
func WithClock(source clock.Clock) CorrelatorOption {
	return func(c *Correlator) { c.clock = source }
}

// WithCorrelatorLogger sets the logger. The default is the
// connection's logger.
func WithCorrelatorLogger(logger *slog.Logger) CorrelatorOption {
	return func(c *Correlator) { c.logger = logger }
}

type callResult struct {
	message Message
	err     error
}

// Correlator multiplexes id-correlated requests over one Connection.
// It owns every read on the connection: a single goroutine reads one
// message at a time, extracts its id and hands it to the caller
// waiting on that id. Responses may arrive in any order and may be
// interleaved with messages for nobody.
//
// A response whose id has no waiter is discarded and logged at Debug
// (and passed to the WithUnsolicited handler, if any). It is not a
// protocol error: the waiter may simply have given up.
//
// When the read loop stops, on an I/O or framing error or because the
// connection was closed, every pending call fails with an error
// matching ErrDisconnected, exactly once, and the Correlator accepts no
// further calls.
type Correlator struct {
	conn        *Connection
	extract     IDExtractor
	logger      *slog.Logger
	unsolicited func(Message)
	metrics     CallMetrics
	clock       clock.Clock

	state atomic.Int32

	mutex   sync.Mutex
	pending map[uint32]chan callResult
	err     error

	done chan struct{}
}

// NewCorrelator starts the read loop on conn. Nothing else may read
// from conn afterwards.
func NewCorrelator(conn *Connection, extract IDExtractor, opts ...CorrelatorOption) *Correlator {
	correlator := &Correlator{
		conn:    conn,
		extract: extract,
		logger:  conn.logger,
		clock:   clock.Real(),
		pending: make(map[uint32]chan callResult),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(correlator)
	}
	correlator.state.Store(int32(StateIdle))
	go correlator.readLoop()
	return correlator
}

// Connection returns the underlying connection, for sending messages
// that expect no response.
func (c *Correlator) Connection() *Connection { return c.conn }

// State returns the current read-loop state.
func (c *Correlator) State() State { return State(c.state.Load()) }

// Done is closed when the read loop has exited.
func (c *Correlator) Done() <-chan struct{} { return c.done }

// Err returns the terminal error after Done is closed, nil before.
func (c *Correlator) Err() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.err
}

// Pending returns the number of calls waiting for a response.
func (c *Correlator) Pending() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.pending)
}

// Call registers id, writes request, and waits for the response that
// carries id. The id is registered before the write so that a fast
// response cannot be missed.
//
// If ctx ends first, Call returns the context error and forgets id; a
// response that arrives later is discarded. The physical read is never
// interrupted, since other callers may be waiting on it.
func (c *Correlator) Call(ctx context.Context, id uint32, request Outbound) (Message, error) {
	waiter, err := c.register(id)
	if err != nil {
		return Message{}, err
	}

	started := c.clock.Now()
	if c.metrics != nil {
		c.metrics.CallStarted(c.conn.name)
	}
	response, err := c.await(ctx, id, waiter, request)
	if c.metrics != nil {
		c.metrics.CallFinished(c.conn.name, c.clock.Now().Sub(started), err)
	}
	return response, err
}

func (c *Correlator) await(ctx context.Context, id uint32, waiter <-chan callResult, request Outbound) (Message, error) {
	if err := c.conn.SendMessage(ctx, request); err != nil {
		c.forget(id)
		return Message{}, err
	}
	select {
	case result := <-waiter:
		return result.message, result.err
	case <-ctx.Done():
		c.forget(id)
		return Message{}, fmt.Errorf("service %q: waiting for response %d: %w", c.conn.name, id, ctx.Err())
	}
}

func (c *Correlator) register(id uint32) (<-chan callResult, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	if _, exists := c.pending[id]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	// Capacity 1: the read loop never blocks delivering, even to a
	// caller that has stopped listening.
	waiter := make(chan callResult, 1)
	c.pending[id] = waiter
	return waiter, nil
}

// forget removes id if it is still pending.
func (c *Correlator) forget(id uint32) {
	c.mutex.Lock()
	delete(c.pending, id)
	c.mutex.Unlock()
}

// Close closes the connection and waits for the read loop to fail
// every pending call.
func (c *Correlator) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *Correlator) readLoop() {
	defer close(c.done)
	for {
		c.state.Store(int32(StateAwaitingRead))
		received, err := c.conn.Recv(context.Background())
		if err != nil {
			c.fail(err)
			return
		}
		c.state.Store(int32(StateDispatching))
		c.dispatch(received)
		c.state.Store(int32(StateIdle))
	}
}

func (c *Correlator) dispatch(received Message) {
	id, ok := c.extract(received.Type, received.Body)
	if !ok {
		c.logger.Debug("discarding message without correlation id", "type", received.Type)
		c.deliverUnsolicited(received)
		return
	}

	c.mutex.Lock()
	waiter, found := c.pending[id]
	delete(c.pending, id)
	c.mutex.Unlock()

	if !found {
		c.logger.Debug("discarding response with no pending request", "type", received.Type, "id", id)
		c.deliverUnsolicited(received)
		return
	}
	waiter <- callResult{message: received}
}

func (c *Correlator) deliverUnsolicited(received Message) {
	if c.unsolicited != nil {
		c.unsolicited(received)
	}
}

// fail moves to StateBroken and resolves every pending call with the
// disconnection error.
func (c *Correlator) fail(cause error) {
	if netutil.IsExpectedCloseError(cause) || errors.Is(cause, ErrBroken) {
		c.logger.Debug("read loop stopped", "reason", cause)
	} else {
		c.logger.Debug("read loop failed", "error", cause)
	}

	disconnected := fmt.Errorf("service %q: %w: %w", c.conn.name, ErrDisconnected, cause)

	c.mutex.Lock()
	c.err = disconnected
	pending := c.pending
	c.pending = make(map[uint32]chan callResult)
	c.mutex.Unlock()

	c.state.Store(int32(StateBroken))
	for _, waiter := range pending {
		waiter <- callResult{err: disconnected}
	}
}
