// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/lib/version"
)

func versionCommand(env Env) *cli.Command {
	var params struct {
		cli.JSONOutput
		Full bool `flag:"full" desc:"include the commit and build time"`
	}
	return &cli.Command{
		Name:    "version",
		Summary: "Print the gnunet-ipc version",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("version", &params) },
		Run: func(_ context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("version takes no arguments")
			}
			if done, err := params.EmitJSON(env.Stdout, version.Current()); done {
				return err
			}
			text := version.Info()
			if params.Full {
				text = version.Full()
			}
			_, err := fmt.Fprintln(env.Stdout, text)
			return err
		},
	}
}
