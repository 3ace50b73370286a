// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package service

import "errors"

// PeerCredentials is only implemented on Linux.
func (c *Connection) PeerCredentials() (PeerCredentials, error) {
	return PeerCredentials{}, errors.New("service: peer credentials are only available on linux")
}
