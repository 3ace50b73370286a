// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service"
)

// ServiceName is the configuration section of the identity daemon.
const ServiceName = "identity"

var (
	// ErrNameTooLong is returned when a name does not fit in a message.
	ErrNameTooLong = errors.New("identity: name too long")

	// ErrInvalidName is returned for names containing a NUL byte.
	ErrInvalidName = errors.New("identity: name contains a NUL byte")
)

// ServiceError is a failure reported by the daemon in an
// IDENTITY_RESULT_CODE message.
type ServiceError struct {
	Code    uint32
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("identity: service returned error code %d", e.Code)
	}
	return fmt.Sprintf("identity: service returned error code %d: %s", e.Code, e.Message)
}

// Ego is a named private key.
type Ego struct {
	Name       string
	PrivateKey peer.PrivateKey
}

func (e Ego) String() string {
	if e.Name == "" {
		return "<anonymous>"
	}
	return e.Name
}

// Client talks to the identity daemon over one connection.
type Client struct {
	sequencer *service.Sequencer

	// names maps the keys seen in ego updates to ego names, so that
	// GetDefault can name the ego it returns.
	mutex sync.Mutex
	names map[peer.PrivateKey]string
}

// Connect dials the identity daemon.
func Connect(ctx context.Context, resolver service.Resolver, opts ...service.Option) (*Client, error) {
	conn, err := service.Connect(ctx, resolver, ServiceName, opts...)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn *service.Connection) *Client {
	return &Client{
		sequencer: service.NewSequencer(conn),
		names:     make(map[peer.PrivateKey]string),
	}
}

// Connection returns the underlying connection.
func (c *Client) Connection() *service.Connection { return c.sequencer.Connection() }

// Close closes the connection.
func (c *Client) Close() error { return c.sequencer.Close() }

// ListEgos subscribes to ego updates and returns the initial list, in
// the order the daemon sent it.
func (c *Client) ListEgos(ctx context.Context) ([]Ego, error) {
	var egos []Ego
	err := c.sequencer.Stream(ctx, newStartMessage(), func(received service.Message) (bool, error) {
		update, err := message.Expect[updateMessage](received.Type, received.Body)
		if err != nil {
			return false, fmt.Errorf("identity: listing egos: %w", err)
		}
		if update.endOfList {
			return true, nil
		}
		c.remember(update.ego)
		if update.ego.Name != "" {
			egos = append(egos, update.ego)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return egos, nil
}

// GetDefault returns the default ego of subsystem (for example
// "namestore" or "gns-master"). A daemon refusal is a *ServiceError.
// The ego's Name is filled in only if ListEgos has reported its key.
func (c *Client) GetDefault(ctx context.Context, subsystem string) (Ego, error) {
	request, err := namedRequest(msgtype.IdentityGetDefault, subsystem)
	if err != nil {
		return Ego{}, err
	}

	var ego Ego
	err = c.await(ctx, request, func(received service.Message) error {
		reply, err := message.ExpectEither[setDefaultMessage, resultCodeMessage](received.Type, received.Body)
		if err != nil {
			return err
		}
		if reply.Second != nil {
			if err := reply.Second.err(); err != nil {
				return err
			}
			return &ServiceError{Message: "daemon reported success without an ego"}
		}
		if reply.First.subsystem != subsystem {
			return &message.ParseError{
				Type:   msgtype.IdentitySetDefault,
				Field:  "name",
				Reason: fmt.Sprintf("reply names subsystem %q, requested %q", reply.First.subsystem, subsystem),
			}
		}
		ego = Ego{Name: c.nameOf(reply.First.key), PrivateKey: reply.First.key}
		return nil
	})
	if err != nil {
		return Ego{}, fmt.Errorf("identity: getting default ego for %q: %w", subsystem, err)
	}
	return ego, nil
}

// SetDefault makes ego the default for subsystem.
func (c *Client) SetDefault(ctx context.Context, subsystem string, ego Ego) error {
	if strings.IndexByte(subsystem, 0) >= 0 {
		return ErrInvalidName
	}
	request, err := newKeyedMessage(msgtype.IdentitySetDefault, subsystem, ego.PrivateKey)
	if err != nil {
		return err
	}
	if err := c.result(ctx, request); err != nil {
		return fmt.Errorf("identity: setting default ego for %q: %w", subsystem, err)
	}
	return nil
}

// Create asks the daemon to store a new ego under name.
func (c *Client) Create(ctx context.Context, name string, key peer.PrivateKey) error {
	if strings.IndexByte(name, 0) >= 0 {
		return ErrInvalidName
	}
	request, err := newKeyedMessage(msgtype.IdentityCreate, name, key)
	if err != nil {
		return err
	}
	if err := c.result(ctx, request); err != nil {
		return fmt.Errorf("identity: creating ego %q: %w", name, err)
	}
	return nil
}

// Rename renames an ego.
func (c *Client) Rename(ctx context.Context, oldName, newName string) error {
	if strings.IndexByte(oldName, 0) >= 0 || strings.IndexByte(newName, 0) >= 0 {
		return ErrInvalidName
	}
	request, err := newRenameMessage(oldName, newName)
	if err != nil {
		return err
	}
	if err := c.result(ctx, request); err != nil {
		return fmt.Errorf("identity: renaming ego %q: %w", oldName, err)
	}
	return nil
}

// Delete removes an ego.
func (c *Client) Delete(ctx context.Context, name string) error {
	request, err := namedRequest(msgtype.IdentityDelete, name)
	if err != nil {
		return err
	}
	if err := c.result(ctx, request); err != nil {
		return fmt.Errorf("identity: deleting ego %q: %w", name, err)
	}
	return nil
}

func namedRequest(typ msgtype.Type, name string) (*message.Compound, error) {
	if strings.IndexByte(name, 0) >= 0 {
		return nil, ErrInvalidName
	}
	return newNamedMessage(typ, name)
}

// result sends request and waits for its IDENTITY_RESULT_CODE.
func (c *Client) result(ctx context.Context, request service.Outbound) error {
	return c.await(ctx, request, func(received service.Message) error {
		reply, err := message.Expect[resultCodeMessage](received.Type, received.Body)
		if err != nil {
			return err
		}
		return reply.err()
	})
}

// await sends request and hands the first reply that is not an ego
// update to handle. The reply is consumed whatever handle returns, so
// a decode failure or a daemon refusal leaves the connection in step.
func (c *Client) await(ctx context.Context, request service.Outbound, handle func(service.Message) error) error {
	var handled error
	err := c.sequencer.Stream(ctx, request, func(received service.Message) (bool, error) {
		if received.Type == msgtype.IdentityUpdate {
			if update, err := message.Expect[updateMessage](received.Type, received.Body); err == nil && !update.endOfList {
				c.remember(update.ego)
			}
			return false, nil
		}
		handled = handle(received)
		return true, nil
	})
	if err != nil {
		return err
	}
	return handled
}

// remember records an ego update. An empty name means deletion.
func (c *Client) remember(ego Ego) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if ego.Name == "" {
		delete(c.names, ego.PrivateKey)
		return
	}
	c.names[ego.PrivateKey] = ego.Name
}

func (c *Client) nameOf(key peer.PrivateKey) string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.names[key]
}
