// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

// defaultDialTimeout bounds the connect phase when the caller's
// context carries no deadline of its own.
const defaultDialTimeout = 5 * time.Second

// Message is one received message with its header stripped.
type Message struct {
	Type msgtype.Type
	Body []byte
}

// Header reconstructs the envelope the message arrived with.
func (m Message) Header() message.Header {
	return message.Header{Length: uint16(message.HeaderSize + len(m.Body)), Type: m.Type}
}

// Connection is an open stream to one service daemon. It is safe for
// concurrent use: writes are serialized so that a compound message is
// never interleaved with another writer's bytes, and reads are
// serialized so that at most one read is in flight. Serializing reads
// does not make them correlated; use a Correlator or Sequencer for that.
type Connection struct {
	name      string
	conn      net.Conn
	logger    *slog.Logger
	observers []Observer

	writeMutex sync.Mutex
	readMutex  sync.Mutex

	broken    atomic.Bool
	closeOnce sync.Once
	closed    chan struct{}
}

// Option configures a Connection.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	observers   []Observer
	dialTimeout time.Duration
}

// WithLogger sets the logger for Debug-level traffic logs. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver registers an observer called after every message sent
// or received. Observers run synchronously on the I/O path.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// WithDialTimeout overrides the connect timeout.
func WithDialTimeout(timeout time.Duration) Option {
	return func(o *options) { o.dialTimeout = timeout }
}

func buildOptions(opts []Option) options {
	o := options{dialTimeout: defaultDialTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Connect resolves the socket path of the named service and dials it.
// A resolver failure is a *ConnectError of kind ConnectNotConfigured;
// a dial failure is a *ConnectError of kind ConnectIO wrapping the OS
// error. Connect does not retry.
func Connect(ctx context.Context, resolver Resolver, name string, opts ...Option) (*Connection, error) {
	path, err := resolver.SocketPath(name)
	if err != nil {
		return nil, &ConnectError{Kind: ConnectNotConfigured, Service: name, Err: err}
	}
	return ConnectPath(ctx, name, path, opts...)
}

// ConnectPath dials a service socket at a known path.
func ConnectPath(ctx context.Context, name, path string, opts ...Option) (*Connection, error) {
	o := buildOptions(opts)
	dialer := net.Dialer{Timeout: o.dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, &ConnectError{Kind: ConnectIO, Service: name, Path: path, Err: err}
	}
	o.logger.Debug("connected to service", "service", name, "path", path)
	return newConnection(name, conn, o), nil
}

// FromConn wraps an already-connected stream. The Connection takes
// ownership of conn.
func FromConn(name string, conn net.Conn, opts ...Option) *Connection {
	return newConnection(name, conn, buildOptions(opts))
}

func newConnection(name string, conn net.Conn, o options) *Connection {
	return &Connection{
		name:      name,
		conn:      conn,
		logger:    o.logger.With("service", name),
		observers: o.observers,
		closed:    make(chan struct{}),
	}
}

// Name returns the logical service name.
func (c *Connection) Name() string { return c.name }

// Logger returns the connection's logger, for clients built on it.
func (c *Connection) Logger() *slog.Logger { return c.logger }

// String identifies the connection in diagnostics. It shows only the
// service name.
func (c *Connection) String() string { return "service.Connection(" + c.name + ")" }

// Broken reports whether the connection has been desynchronized or
// closed.
func (c *Connection) Broken() bool { return c.broken.Load() }

// Done is closed when Close is called.
func (c *Connection) Done() <-chan struct{} { return c.closed }

// Close closes the socket. Any read or write in progress fails and the
// connection is broken from then on.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.broken.Store(true)
		err = c.conn.Close()
		close(c.closed)
		c.logger.Debug("connection closed")
	})
	return err
}

// markBroken records a fatal stream error and interrupts a read in
// progress, so a correlator's read loop fails its pending calls
// without waiting for the daemon to hang up. The socket is left open
// until Close so that the caller sees the original error rather than a
// "use of closed connection" from a concurrent operation.
func (c *Connection) markBroken(reason error) {
	if !c.broken.Swap(true) {
		c.logger.Debug("connection broken", "error", reason)
		_ = c.conn.SetReadDeadline(pastDeadline)
	}
}

// Send writes a single-buffer message.
func (c *Connection) Send(ctx context.Context, msg message.Encodable) error {
	data := msg.Bytes()
	return c.write(ctx, msg.MessageType(), len(data), func() (int64, error) {
		n, err := c.conn.Write(data)
		return int64(n), err
	}, func() []byte { return data })
}

// SendCompound writes a chunked message with one vectored write. The
// chunks are never concatenated.
func (c *Connection) SendCompound(ctx context.Context, msg message.CompoundEncodable) error {
	chunks := msg.Chunks()
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	return c.write(ctx, msg.MessageType(), total, func() (int64, error) {
		// WriteTo consumes its receiver; give it a copy of the slice
		// header so msg stays intact.
		buffers := make(net.Buffers, len(chunks))
		copy(buffers, chunks)
		return buffers.WriteTo(c.conn)
	}, func() []byte {
		data := make([]byte, 0, total)
		for _, chunk := range chunks {
			data = append(data, chunk...)
		}
		return data
	})
}

func (c *Connection) write(ctx context.Context, typ msgtype.Type, length int, writeFunc func() (int64, error), wireBytes func() []byte) error {
	if c.broken.Load() {
		return ErrBroken
	}
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	if c.broken.Load() {
		return ErrBroken
	}

	release := bindContext(ctx, c.conn.SetWriteDeadline)
	written, err := writeFunc()
	release()
	if err != nil {
		if written == 0 && ctx.Err() != nil {
			return fmt.Errorf("service %q: send %s: %w", c.name, typ, ctx.Err())
		}
		c.markBroken(err)
		return fmt.Errorf("service %q: send %s: %w", c.name, typ, err)
	}

	c.logger.Debug("sent message", "type", typ, "length", length)
	if len(c.observers) > 0 {
		data := wireBytes()
		c.notify(Event{Service: c.name, Direction: Sent, Type: typ, Body: data[message.HeaderSize:]})
	}
	return nil
}

// Recv reads exactly one message. A header whose length is below the
// header size fails with *ShortMessageError without reading further; a
// stream that ends mid-message fails with *FramingError. Both leave the
// connection broken.
//
// Cancelling ctx before any byte of the message arrives returns the
// context error and leaves the connection usable. Cancelling it
// partway through a message breaks the connection.
func (c *Connection) Recv(ctx context.Context) (Message, error) {
	if c.broken.Load() {
		return Message{}, ErrBroken
	}
	c.readMutex.Lock()
	defer c.readMutex.Unlock()
	// The read ahead of this one may have desynchronized the stream.
	if c.broken.Load() {
		return Message{}, ErrBroken
	}

	release := bindContext(ctx, c.conn.SetReadDeadline)
	defer release()

	var headerBytes [message.HeaderSize]byte
	read, err := io.ReadFull(c.conn, headerBytes[:])
	if err != nil {
		if read == 0 && ctx.Err() != nil {
			return Message{}, fmt.Errorf("service %q: receive: %w", c.name, ctx.Err())
		}
		if read == 0 && c.broken.Load() && errors.Is(err, os.ErrDeadlineExceeded) {
			return Message{}, fmt.Errorf("service %q: receive: %w", c.name, ErrBroken)
		}
		framingErr := &FramingError{Service: c.name, Stage: "header", Want: message.HeaderSize, Got: read, Err: err}
		c.markBroken(framingErr)
		return Message{}, framingErr
	}

	header, _ := message.DecodeHeader(headerBytes[:])
	if !header.Valid() {
		shortErr := &ShortMessageError{Service: c.name, Length: header.Length}
		c.markBroken(shortErr)
		return Message{}, shortErr
	}

	body := make([]byte, header.BodyLength())
	read, err = io.ReadFull(c.conn, body)
	if err != nil {
		framingErr := &FramingError{Service: c.name, Stage: "body", Want: len(body), Got: read, Err: err}
		c.markBroken(framingErr)
		return Message{}, framingErr
	}

	received := Message{Type: header.Type, Body: body}
	c.logger.Debug("received message", "type", header.Type, "length", header.Length)
	if len(c.observers) > 0 {
		c.notify(Event{Service: c.name, Direction: Received, Type: header.Type, Body: body})
	}
	return received, nil
}

func (c *Connection) notify(event Event) {
	for _, observer := range c.observers {
		observer.ObserveMessage(event)
	}
}

// pastDeadline is any time in the past; setting it as a deadline
// interrupts blocked I/O immediately.
var pastDeadline = time.Unix(1, 0)

// bindContext interrupts one I/O call through setDeadline when ctx is
// done. The socket deadline is only ever moved after ctx.Err() is set,
// so an interrupted call can always tell cancellation from a socket
// timeout. The returned release function clears the deadline and must
// be called once the call returns.
func bindContext(ctx context.Context, setDeadline func(time.Time) error) (release func()) {
	if ctx.Done() == nil {
		return func() {}
	}
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = setDeadline(pastDeadline)
		close(interrupted)
	})
	return func() {
		if !stop() {
			<-interrupted
		}
		_ = setDeadline(time.Time{})
	}
}

// Outbound is any message a connection can write: a
// message.Encodable or a message.CompoundEncodable.
type Outbound interface {
	MessageType() msgtype.Type
}

// SendMessage writes msg with SendCompound if it is compound and Send
// otherwise.
func (c *Connection) SendMessage(ctx context.Context, msg Outbound) error {
	switch typed := msg.(type) {
	case message.CompoundEncodable:
		return c.SendCompound(ctx, typed)
	case message.Encodable:
		return c.Send(ctx, typed)
	default:
		return fmt.Errorf("service %q: %T is neither a fixed nor a compound message", c.name, msg)
	}
}
