// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"io"
	"os"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
)

// Env is where commands write their results.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultEnv writes to the process's standard streams.
func DefaultEnv() Env {
	return Env{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Root returns the gnunet-ipc command tree.
func Root(env Env) *cli.Command {
	return &cli.Command{
		Name:       "gnunet-ipc",
		Summary:    "Talk to local GNUnet service daemons",
		HelpOutput: env.Stderr,
		Description: `gnunet-ipc speaks the GNUnet client protocol to the local service
daemons over their Unix sockets.

Socket paths come from the GNUnet configuration (gnunet.conf and the
installation's config.d defaults). The client configuration named by
GNUNET_IPC_CONFIG can override them and enable wire capture and
metrics.`,
		Subcommands: []*cli.Command{
			identityCommand(env),
			gnsCommand(env),
			peerinfoCommand(env),
			transportCommand(env),
			traceCommand(env),
			configCommand(env),
			versionCommand(env),
		},
	}
}
