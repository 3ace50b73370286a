// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the
// gnunet-ipc client tooling.
//
// Configuration is loaded from a single file specified by either the
// GNUNET_IPC_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no file search.
//
// The client configuration does not duplicate GNUnet's own INI
// configuration: gnunet_config points at it, and the per-service
// sockets map only overrides socket paths that the INI file would
// otherwise supply. [Config.Resolver] layers the two.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded from the
// environment.
//
// Key exports:
//
//   - [Config] -- the client configuration
//   - [Default] -- a Config with defaults filled in
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Resolver] -- the socket path resolver for service.Connect
package config
