// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service/gns"
	"github.com/bureau-foundation/gnunet/service/identity"
)

type lookupParams struct {
	cli.JSONOutput
	Type     string `flag:"type,t" desc:"record type to return (name, TYPEn or number)" default:"ANY"`
	Zone     string `flag:"zone,z" desc:"zone public key; defaults to the gns-master ego's zone"`
	NoDHT    bool   `flag:"no-dht" desc:"answer from the local cache and namestore only"`
	Parallel int    `flag:"parallel" desc:"lookups in flight at once" default:"8"`
}

type recordJSON struct {
	Type    string `json:"type"`
	Value   string `json:"value"`
	Expires string `json:"expires"`
	Flags   string `json:"flags"`
	Data    []byte `json:"data"`
}

type lookupJSON struct {
	Name    string       `json:"name"`
	Records []recordJSON `json:"records"`
}

func gnsCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "gns",
		Summary: "Resolve names in the GNU Name System",
		Subcommands: []*cli.Command{
			gnsLookupCommand(env),
		},
	}
}

func gnsLookupCommand(env Env) *cli.Command {
	var params lookupParams
	return &cli.Command{
		Name:    "lookup",
		Summary: "Look up one or more names",
		Usage:   "gnunet-ipc gns lookup [flags] <name>...",
		Description: `Look up names in a GNS zone. Without --zone the zone is the public
key of the default ego of the gns-master subsystem, as reported by
the identity service. Names are resolved concurrently.`,
		Examples: []cli.Example{
			{Description: "Look up the addresses of a name", Command: "gnunet-ipc gns lookup --type A www.gnu"},
			{Description: "Look up in an explicit zone", Command: "gnunet-ipc gns lookup --zone 000G0... www"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("lookup", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return cli.Validation("usage: gnunet-ipc gns lookup [flags] <name>...")
			}
			recordType, err := gns.ParseRecordType(params.Type)
			if err != nil {
				return cli.Validation("--type: %v", err)
			}
			var zone *peer.PublicKey
			if params.Zone != "" {
				key, err := peer.ParsePublicKey(params.Zone)
				if err != nil {
					return cli.Validation("--zone: %v", err)
				}
				zone = &key
			}
			if params.Parallel < 1 {
				return cli.Validation("--parallel must be at least 1")
			}
			options := gns.Default
			if params.NoDHT {
				options = gns.NoDHT
			}

			return withSession(func(s *session) error {
				results, err := lookupAll(ctx, s, args, zone, recordType, options, params.Parallel)
				var serviceErr *identity.ServiceError
				if errors.As(err, &serviceErr) {
					return cli.NotFound("no master zone (%v); pass --zone", serviceErr)
				}
				if err != nil {
					return err
				}
				return writeLookups(env, &params, args, results, s.clock.Now())
			})
		},
	}
}

// lookupAll resolves names concurrently and returns their records in
// the order of names. The first failure cancels the rest.
func lookupAll(ctx context.Context, s *session, names []string, zone *peer.PublicKey, recordType gns.RecordType, options gns.LocalOptions, parallel int) ([][]gns.Record, error) {
	conn, err := s.connect(ctx, gns.ServiceName)
	if err != nil {
		return nil, err
	}
	client := gns.New(conn, s.correlatorOptions()...)
	defer client.Close()

	var egos *identity.Client
	if zone == nil {
		egos, err = identity.Connect(ctx, s.resolver, s.options()...)
		if err != nil {
			return nil, err
		}
		defer egos.Close()
	}

	results := make([][]gns.Record, len(names))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)
	for i, name := range names {
		group.Go(func() error {
			var records []gns.Record
			var err error
			if zone != nil {
				records, err = client.Lookup(groupCtx, name, *zone, recordType, options)
			} else {
				records, err = gns.LookupInMaster(groupCtx, egos, client, name, recordType, options)
			}
			if err != nil {
				return err
			}
			s.logger.Debug("gns lookup finished", "name", name, "records", len(records))
			results[i] = records
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeLookups(env Env, params *lookupParams, names []string, results [][]gns.Record, now time.Time) error {
	total := 0
	output := make([]lookupJSON, len(results))
	for i, records := range results {
		output[i] = lookupJSON{Name: names[i], Records: make([]recordJSON, 0, len(records))}
		for _, record := range records {
			output[i].Records = append(output[i].Records, recordJSON{
				Type:    record.Type.String(),
				Value:   record.Value(),
				Expires: record.ExpiresAt(now).String(),
				Flags:   record.Flags.String(),
				Data:    record.Data,
			})
		}
		total += len(records)
	}

	if done, err := params.EmitJSON(env.Stdout, output); done {
		if err == nil && total == 0 {
			err = &cli.ExitError{Code: cli.CategoryNotFound.ExitCode()}
		}
		return err
	}
	if total == 0 {
		return cli.NotFound("no records for %s", strings.Join(names, ", "))
	}
	table := cli.NewTable("NAME", "TYPE", "VALUE", "EXPIRES", "FLAGS")
	for _, lookup := range output {
		for _, record := range lookup.Records {
			table.Row(lookup.Name, record.Type, record.Value, record.Expires, record.Flags)
		}
	}
	return table.Write(env.Stdout)
}
