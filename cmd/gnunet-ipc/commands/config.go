// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
)

func configCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			configSocketCommand(env),
			configGetCommand(env),
		},
	}
}

func configSocketCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "socket",
		Summary: "Print the socket path of each named service",
		Usage:   "gnunet-ipc config socket <service>...",
		Run: func(_ context.Context, args []string) error {
			if len(args) == 0 {
				return cli.Validation("usage: gnunet-ipc config socket <service>...")
			}
			return withSession(func(s *session) error {
				table := cli.NewTable("SERVICE", "SOCKET")
				for _, name := range args {
					path, err := s.resolver.SocketPath(name)
					if err != nil {
						return err
					}
					table.Row(name, path)
				}
				return table.Write(env.Stdout)
			})
		},
	}
}

func configGetCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:        "get",
		Summary:     "Print a GNUnet configuration value with variables expanded",
		Usage:       "gnunet-ipc config get <section> <key>",
		Description: "Print OPTION from [SECTION] of the GNUnet configuration, expanding $VAR and ${VAR:-default} references.",
		Run: func(_ context.Context, args []string) error {
			if len(args) != 2 {
				return cli.Validation("usage: gnunet-ipc config get <section> <key>")
			}
			return withSession(func(s *session) error {
				raw, err := s.ini.String(args[0], args[1])
				if err != nil {
					return cli.NotFound("%v", err)
				}
				value, err := s.ini.Expand(raw)
				if err != nil {
					return cli.Validation("[%s] %s: %v", args[0], args[1], err)
				}
				_, err = fmt.Fprintln(env.Stdout, value)
				return err
			})
		},
	}
}
