// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for gnunet-ipc.
//
// [Version], [GitCommit], [GitDirty] and [BuildTime] are injected with
// -ldflags -X. When they are not, as in development builds, the commit
// and dirty flag fall back to the VCS stamp the Go toolchain records
// in the binary.
package version
