// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cadet is a client for the CADET daemon, which carries
// end-to-end channels between peers.
//
// Channel ids are chosen by whoever opens the channel. Ids this client
// allocates have the top bit set (0x80000000 upward); ids of channels
// that remote peers open to one of our ports are chosen by the daemon
// and lie below that. The daemon never replies to control messages,
// so the client's read loop only tracks channels the daemon opens or
// destroys.
package cadet
