// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the gnunet-ipc command tree. Every command
// that talks to a daemon opens a session from the client
// configuration (the file named by GNUNET_IPC_CONFIG, or the defaults)
// which carries the resolver, the logger and the optional wire
// capture and metrics observers shared by its connections.
package commands
