// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
)

// DaemonConn is the daemon side of a service connection in a test.
// On an I/O error its methods mark the test failed and exit the
// calling goroutine, which is safe both in the test goroutine and in a
// FakeDaemon script.
type DaemonConn struct {
	t    testing.TB
	conn net.Conn
}

// NewDaemonConn wraps the daemon end of a connection.
func NewDaemonConn(t testing.TB, conn net.Conn) *DaemonConn {
	return &DaemonConn{t: t, conn: conn}
}

func (d *DaemonConn) fail(format string, args ...any) {
	d.t.Helper()
	d.t.Errorf(format, args...)
	runtime.Goexit()
}

// Fatalf fails the test and ends the calling script goroutine.
func (d *DaemonConn) Fatalf(format string, args ...any) {
	d.t.Helper()
	d.fail(format, args...)
}

// Conn returns the raw connection, for writing malformed frames.
func (d *DaemonConn) Conn() net.Conn { return d.conn }

// Read reads one framed message and returns its type and body. It
// fails the test if no message arrives within five seconds.
func (d *DaemonConn) Read() (msgtype.Type, []byte) {
	d.t.Helper()
	_ = d.conn.SetReadDeadline(time.Now().Add(5 * time.Second)) //nolint:realclock test hang prevention
	defer func() { _ = d.conn.SetReadDeadline(time.Time{}) }()

	var header [message.HeaderSize]byte
	if _, err := io.ReadFull(d.conn, header[:]); err != nil {
		d.fail("daemon: read header: %v", err)
	}
	length := binary.BigEndian.Uint16(header[0:2])
	if length < message.HeaderSize {
		d.fail("daemon: client sent length %d", length)
	}
	body := make([]byte, int(length)-message.HeaderSize)
	if _, err := io.ReadFull(d.conn, body); err != nil {
		d.fail("daemon: read body: %v", err)
	}
	return msgtype.Type(binary.BigEndian.Uint16(header[2:4])), body
}

// Expect reads one message and fails the test unless it has type want.
// It returns the body.
func (d *DaemonConn) Expect(want msgtype.Type) []byte {
	d.t.Helper()
	got, body := d.Read()
	if got != want {
		d.fail("daemon: received %s, want %s", got, want)
	}
	return body
}

// Write sends one framed message.
func (d *DaemonConn) Write(typ msgtype.Type, body []byte) {
	d.t.Helper()
	fixed, err := message.NewFixed(typ, body)
	if err != nil {
		d.fail("daemon: build %s: %v", typ, err)
	}
	d.WriteRaw(fixed.Bytes())
}

// WriteRaw sends bytes unframed.
func (d *DaemonConn) WriteRaw(data []byte) {
	d.t.Helper()
	if _, err := d.conn.Write(data); err != nil {
		d.fail("daemon: write: %v", err)
	}
}

// Close closes the daemon side.
func (d *DaemonConn) Close() {
	_ = d.conn.Close()
}

// FakeDaemon serves a Unix socket at Path and runs a script for every
// accepted connection.
type FakeDaemon struct {
	// Path is the socket path.
	Path string

	listener  net.Listener
	waitGroup sync.WaitGroup
}

// StartDaemon listens on a fresh socket named name+".sock" in a
// SocketDir and runs script on each accepted connection in its own
// goroutine. The listener is closed and all scripts are waited for
// when the test completes.
//
// Scripts run outside the test goroutine, so their own checks must
// use t.Error rather than t.Fatal.
func StartDaemon(t *testing.T, name string, script func(*DaemonConn)) *FakeDaemon {
	t.Helper()
	path := filepath.Join(SocketDir(t), name+".sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen %s: %v", path, err)
	}
	daemon := &FakeDaemon{Path: path, listener: listener}

	daemon.waitGroup.Add(1)
	go func() {
		defer daemon.waitGroup.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					t.Errorf("daemon %s: accept: %v", name, err)
				}
				return
			}
			daemon.waitGroup.Add(1)
			go func() {
				defer daemon.waitGroup.Done()
				defer conn.Close()
				script(NewDaemonConn(t, conn))
			}()
		}
	}()

	t.Cleanup(func() {
		_ = listener.Close()
		daemon.waitGroup.Wait()
	})
	return daemon
}

// ServePair returns the client end of a socket pair whose daemon end
// runs script in its own goroutine. When the test completes it waits
// for script to return before the sockets are closed.
func ServePair(t *testing.T, script func(*DaemonConn)) *net.UnixConn {
	t.Helper()
	client, daemon := ConnPair(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		script(NewDaemonConn(t, daemon))
	}()
	t.Cleanup(func() {
		select {
		case <-done:
		case <-time.After(10 * time.Second): //nolint:realclock test hang prevention
			t.Error("daemon script did not finish")
		}
	})
	return client
}
