// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/service/identity"
)

type egoJSON struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
}

func newEgoJSON(ego identity.Ego) egoJSON {
	return egoJSON{Name: ego.Name, PublicKey: ego.PrivateKey.PublicKey().String()}
}

func identityCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "identity",
		Summary: "List egos and subsystem defaults",
		Subcommands: []*cli.Command{
			identityListCommand(env),
			identityDefaultCommand(env),
		},
	}
}

func identityListCommand(env Env) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "list",
		Summary: "List the egos known to the identity service",
		Usage:   "gnunet-ipc identity list [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("list", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("identity list takes no arguments")
			}
			return withSession(func(s *session) error {
				client, err := identity.Connect(ctx, s.resolver, s.options()...)
				if err != nil {
					return err
				}
				defer client.Close()

				egos, err := client.ListEgos(ctx)
				if err != nil {
					return err
				}
				result := make([]egoJSON, 0, len(egos))
				for _, ego := range egos {
					result = append(result, newEgoJSON(ego))
				}
				if done, err := params.EmitJSON(env.Stdout, result); done {
					return err
				}
				table := cli.NewTable("NAME", "PUBLIC KEY")
				for _, ego := range result {
					table.Row(ego.Name, ego.PublicKey)
				}
				return table.Write(env.Stdout)
			})
		},
	}
}

func identityDefaultCommand(env Env) *cli.Command {
	var params struct {
		cli.JSONOutput
	}
	return &cli.Command{
		Name:    "default",
		Summary: "Show the default ego of a subsystem",
		Usage:   "gnunet-ipc identity default <subsystem> [--json]",
		Examples: []cli.Example{
			{Description: "Show the master zone used for GNS lookups", Command: "gnunet-ipc identity default gns-master"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("default", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: gnunet-ipc identity default <subsystem>")
			}
			subsystem := args[0]
			return withSession(func(s *session) error {
				client, err := identity.Connect(ctx, s.resolver, s.options()...)
				if err != nil {
					return err
				}
				defer client.Close()

				ego, err := client.GetDefault(ctx, subsystem)
				var serviceErr *identity.ServiceError
				if errors.As(err, &serviceErr) {
					return cli.NotFound("no default ego for %q: %v", subsystem, serviceErr)
				}
				if err != nil {
					return err
				}
				if done, err := params.EmitJSON(env.Stdout, newEgoJSON(ego)); done {
					return err
				}
				_, err = fmt.Fprintf(env.Stdout, "%s\t%s\n", ego, ego.PrivateKey.PublicKey())
				return err
			})
		},
	}
}
