// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// gnunet-ipc is a command-line client for the local GNUnet service
// daemons.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/commands"
	"github.com/bureau-foundation/gnunet/lib/process"
)

func main() {
	err := run()
	if err == nil {
		return
	}
	code := cli.ExitCode(err)
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		process.Exit(nil, code)
	}
	process.Exit(err, code)
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root(commands.DefaultEnv()).Execute(ctx, os.Args[1:])
}
