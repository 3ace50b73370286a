// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

// ConnPair returns two connected Unix stream sockets. Unlike net.Pipe
// they are real kernel sockets, so writes buffer, deadlines behave as
// in production and vectored writes reach the wire as one writev.
// Both ends are closed when the test completes.
func ConnPair(t *testing.T) (client, daemon *net.UnixConn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	client = fileConn(t, fds[0], "client")
	daemon = fileConn(t, fds[1], "daemon")
	t.Cleanup(func() {
		_ = client.Close()
		_ = daemon.Close()
	})
	return client, daemon
}

func fileConn(t *testing.T, fd int, name string) *net.UnixConn {
	t.Helper()
	file := os.NewFile(uintptr(fd), name)
	conn, err := net.FileConn(file)
	// FileConn dups the descriptor.
	_ = file.Close()
	if err != nil {
		t.Fatalf("FileConn(%s): %v", name, err)
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		t.Fatalf("FileConn(%s) returned %T", name, conn)
	}
	return unixConn
}
