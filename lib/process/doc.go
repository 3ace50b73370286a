// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helpers that end a gnunet-ipc
// process. They write to stderr directly because the structured
// logger may not exist yet when main fails.
package process
