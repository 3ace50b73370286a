// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

// PeerCredentials identifies the process serving a socket.
type PeerCredentials struct {
	PID int32
	UID uint32
	GID uint32
}
