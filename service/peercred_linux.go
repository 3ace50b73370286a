// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package service

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// PeerCredentials returns the process credentials of the daemon at the
// other end of the socket, as recorded by the kernel at connect time.
// Callers use it to check that a socket path is served by the expected
// user before trusting its responses.
func (c *Connection) PeerCredentials() (PeerCredentials, error) {
	unixConn, ok := c.conn.(*net.UnixConn)
	if !ok {
		return PeerCredentials{}, fmt.Errorf("service %q: peer credentials need a unix socket, have %T", c.name, c.conn)
	}
	raw, err := unixConn.SyscallConn()
	if err != nil {
		return PeerCredentials{}, fmt.Errorf("service %q: peer credentials: %w", c.name, err)
	}
	var credentials *unix.Ucred
	var credentialErr error
	if err := raw.Control(func(fd uintptr) {
		credentials, credentialErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return PeerCredentials{}, fmt.Errorf("service %q: peer credentials: %w", c.name, err)
	}
	if credentialErr != nil {
		return PeerCredentials{}, fmt.Errorf("service %q: SO_PEERCRED: %w", c.name, credentialErr)
	}
	return PeerCredentials{PID: credentials.Pid, UID: credentials.Uid, GID: credentials.Gid}, nil
}
