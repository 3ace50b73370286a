// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity is a client for the GNUnet identity service, which
// manages egos (named private keys) and the default ego each
// subsystem uses.
//
// The identity daemon answers strictly in order, so the client runs
// every operation through a service.Sequencer. After [Client.ListEgos]
// the daemon keeps pushing IDENTITY_UPDATE messages as egos change;
// the other operations skip those while waiting for their reply.
package identity
