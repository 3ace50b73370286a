// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework of gnunet-ipc: a tree of
// [Command] values dispatched by name, flags bound from tagged
// parameter structs, --json output, categorized errors that map to
// exit codes, and terminal-aware logging and tables.
package cli
