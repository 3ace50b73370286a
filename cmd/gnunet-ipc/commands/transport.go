// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/service/transport"
)

func transportCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "transport",
		Summary: "Query the transport service",
		Subcommands: []*cli.Command{
			transportHelloCommand(env),
		},
	}
}

func transportHelloCommand(env Env) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "hello",
		Summary: "Show the local peer's identity and addresses",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("hello", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("transport hello takes no arguments")
			}
			return withSession(func(s *session) error {
				client, err := transport.Connect(ctx, s.resolver, s.options()...)
				if err != nil {
					return err
				}
				defer client.Close()

				self, err := client.SelfHello(ctx)
				if err != nil {
					return err
				}
				result := newPeerJSON(self.Peer, self)
				if done, err := params.EmitJSON(env.Stdout, result); done {
					return err
				}
				if _, err := fmt.Fprintf(env.Stdout, "peer: %s\n", result.Peer); err != nil {
					return err
				}
				table := cli.NewTable("TRANSPORT", "ADDRESS", "EXPIRES")
				for _, address := range result.Addresses {
					table.Row(address.Transport, address.Address, address.Expires)
				}
				return table.Write(env.Stdout)
			})
		},
	}
}
