// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gnunetconf reads GNUnet's INI-style configuration files and
// resolves service socket paths from them.
//
// The format is line-oriented:
//
//	# comment (also "%")
//	[gns]
//	UNIXPATH = $GNUNET_RUNTIME_DIR/gnunet-service-gns.sock
//	@INLINE@ /etc/gnunet/extra.conf
//
// Section and key names are case-insensitive. An @INLINE@ line merges
// another file at that point; relative paths are taken relative to the
// including file. Later values override earlier ones, both within a
// file and across merged files.
//
// Values read with [Config.Filename] undergo $-expansion: $NAME and
// ${NAME} are replaced by the PATHS section entry of that name, or
// else the environment variable, and ${NAME:-default} falls back to
// the (itself expanded, possibly nested) default. Expansion is applied
// recursively to the substituted values.
//
// A GNUnet installation ships per-service defaults as *.conf files in
// its data directory's config.d; [LoadDefaults] merges them in name
// order and [Load] layers a user file on top.
package gnunetconf
