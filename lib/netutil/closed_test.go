// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

func TestIsExpectedCloseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.EOF, true},
		{"wrapped eof", fmt.Errorf("read header: %w", io.EOF), true},
		{"unexpected eof", io.ErrUnexpectedEOF, true},
		{"closed", &net.OpError{Op: "read", Err: net.ErrClosed}, true},
		{"epipe", &net.OpError{Op: "write", Err: syscall.EPIPE}, true},
		{"reset", syscall.ECONNRESET, true},
		{"refused", syscall.ECONNREFUSED, false},
		{"other", errors.New("boom"), false},
	}
	for _, test := range tests {
		if got := IsExpectedCloseError(test.err); got != test.want {
			t.Errorf("%s: IsExpectedCloseError = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestIsServiceDown(t *testing.T) {
	if !IsServiceDown(&net.OpError{Op: "dial", Err: syscall.ENOENT}) {
		t.Error("ENOENT not reported as service down")
	}
	if !IsServiceDown(fmt.Errorf("connect: %w", syscall.ECONNREFUSED)) {
		t.Error("ECONNREFUSED not reported as service down")
	}
	if IsServiceDown(syscall.EACCES) {
		t.Error("EACCES reported as service down")
	}
}
