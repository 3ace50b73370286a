// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/lib/trace"
)

type traceRecordJSON struct {
	Time      string `json:"time"`
	Direction string `json:"direction"`
	Service   string `json:"service"`
	Type      string `json:"type"`
	Code      uint16 `json:"code"`
	Length    uint16 `json:"length"`
	Body      []byte `json:"body,omitempty"`
}

func traceCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "trace",
		Summary: "Read wire captures",
		Subcommands: []*cli.Command{
			traceDumpCommand(env),
		},
	}
}

func traceDumpCommand(env Env) *cli.Command {
	var params struct {
		cli.JSONOutput
		Service string `flag:"service,s" desc:"show only messages of this service"`
	}
	return &cli.Command{
		Name:    "dump",
		Summary: "Print the messages in a capture file",
		Usage:   "gnunet-ipc trace dump [--service <name>] [--json] <file>",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("dump", &params) },
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Validation("usage: gnunet-ipc trace dump <file>")
			}
			reader, err := trace.Open(args[0])
			if errors.Is(err, trace.ErrNotCapture) {
				return cli.Validation("%s: %v", args[0], err)
			}
			if err != nil {
				return err
			}
			defer reader.Close()

			var records []traceRecordJSON
			for {
				record, err := reader.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if params.Service != "" && record.Service != params.Service {
					continue
				}
				records = append(records, traceRecordJSON{
					Time:      record.Time.String(),
					Direction: record.Direction,
					Service:   record.Service,
					Type:      record.MessageType().String(),
					Code:      record.Type,
					Length:    record.Header().Length,
					Body:      record.Body,
				})
			}

			if done, err := params.EmitJSON(env.Stdout, records); done {
				return err
			}
			table := cli.NewTable("TIME", "DIR", "SERVICE", "TYPE", "LENGTH")
			for _, record := range records {
				table.Row(record.Time, record.Direction, record.Service, record.Type, strconv.Itoa(int(record.Length)))
			}
			return table.Write(env.Stdout)
		},
	}
}
