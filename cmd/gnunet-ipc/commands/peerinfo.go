// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/gnunet/cmd/gnunet-ipc/cli"
	"github.com/bureau-foundation/gnunet/lib/hello"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/service/peerinfo"
)

type addressJSON struct {
	Transport string `json:"transport"`
	Address   string `json:"address"`
	Expires   string `json:"expires"`
}

type peerJSON struct {
	Peer       string        `json:"peer"`
	FriendOnly bool          `json:"friend_only"`
	HasHello   bool          `json:"has_hello"`
	Addresses  []addressJSON `json:"addresses"`
}

func newPeerJSON(id peer.Identity, h *hello.Hello) peerJSON {
	result := peerJSON{Peer: id.String(), Addresses: []addressJSON{}}
	if h == nil {
		return result
	}
	result.HasHello = true
	result.FriendOnly = h.FriendOnly
	for _, address := range h.Addresses {
		result.Addresses = append(result.Addresses, addressJSON{
			Transport: address.Transport,
			Address:   address.String(),
			Expires:   address.Expiration.String(),
		})
	}
	return result
}

func (p peerJSON) addressList() string {
	if len(p.Addresses) == 0 {
		return "-"
	}
	addresses := make([]string, len(p.Addresses))
	for i, address := range p.Addresses {
		addresses[i] = address.Address
	}
	return strings.Join(addresses, ", ")
}

func peerinfoCommand(env Env) *cli.Command {
	return &cli.Command{
		Name:    "peerinfo",
		Summary: "Inspect the peers the local node knows about",
		Subcommands: []*cli.Command{
			peerinfoListCommand(env),
		},
	}
}

func peerinfoListCommand(env Env) *cli.Command {
	var params struct {
		cli.JSONOutput
		Peer       string `flag:"peer,p" desc:"show only this peer identity"`
		FriendOnly bool   `flag:"friend-only" desc:"include friend-only HELLOs"`
	}
	return &cli.Command{
		Name:    "list",
		Summary: "List known peers and their addresses",
		Usage:   "gnunet-ipc peerinfo list [--peer <identity>] [--friend-only] [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("list", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Validation("peerinfo list takes no arguments")
			}
			var only *peer.Identity
			if params.Peer != "" {
				id, err := peer.ParseIdentity(params.Peer)
				if err != nil {
					return cli.Validation("--peer: %v", err)
				}
				only = &id
			}

			return withSession(func(s *session) error {
				client, err := peerinfo.Connect(ctx, s.resolver, s.options()...)
				if err != nil {
					return err
				}
				defer client.Close()
				client.IncludeFriendOnly = params.FriendOnly

				var peers []peerJSON
				if only != nil {
					info, ok, err := client.Get(ctx, *only)
					if err != nil {
						return err
					}
					if !ok {
						return cli.NotFound("peer %s is not known", *only)
					}
					peers = append(peers, newPeerJSON(info.Peer, info.Hello))
				} else {
					infos, err := client.Peers(ctx)
					if err != nil {
						return err
					}
					for _, info := range infos {
						peers = append(peers, newPeerJSON(info.Peer, info.Hello))
					}
				}

				if done, err := params.EmitJSON(env.Stdout, peers); done {
					return err
				}
				table := cli.NewTable("PEER", "ADDRESSES")
				for _, p := range peers {
					table.Row(p.Peer, p.addressList())
				}
				return table.Write(env.Stdout)
			})
		},
	}
}
