// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cadet

import (
	"fmt"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
)

const (
	// id, peer, port, options.
	channelCreateSize = 4 + peer.KeySize + 4 + 4
	// id.
	channelDestroySize = 4
	// port.
	portSize = 4
)

// maxPorts is the longest port list one connect message can carry.
const maxPorts = message.MaxBodySize / portSize

func newConnectMessage(ports []uint32) (*message.Fixed, error) {
	if len(ports) > maxPorts {
		return nil, fmt.Errorf("cadet: %d ports, at most %d fit one message", len(ports), maxPorts)
	}
	builder := message.NewBuilder(len(ports) * portSize)
	for _, port := range ports {
		builder.Uint32(port)
	}
	return message.NewFixed(msgtype.CadetLocalConnect, builder.Bytes())
}

func newPortMessage(typ msgtype.Type, port uint32) *message.Fixed {
	return message.MustFixed(typ, message.NewBuilder(portSize).Uint32(port).Bytes())
}

func newChannelCreateMessage(id ChannelID, target peer.Identity, port uint32, options ChannelOptions) *message.Fixed {
	body := message.NewBuilder(channelCreateSize).
		Uint32(uint32(id)).
		Raw(target[:]).
		Uint32(port).
		Uint32(uint32(options)).
		Bytes()
	return message.MustFixed(msgtype.CadetLocalChannelCreate, body)
}

func newChannelDestroyMessage(id ChannelID) *message.Fixed {
	return message.MustFixed(msgtype.CadetLocalChannelDestroy,
		message.NewBuilder(channelDestroySize).Uint32(uint32(id)).Bytes())
}

// channelCreateMessage is CADET_LOCAL_CHANNEL_CREATE sent by the
// daemon for an inbound channel.
type channelCreateMessage struct {
	channel Channel
}

func (*channelCreateMessage) MessageType() msgtype.Type { return msgtype.CadetLocalChannelCreate }

func (m *channelCreateMessage) DecodeBody(body []byte) error {
	r := message.NewReader(body)
	m.channel.ID = ChannelID(r.Uint32("id"))
	r.Copy("peer", m.channel.Peer[:])
	m.channel.Port = r.Uint32("port")
	m.channel.Options = ChannelOptions(r.Uint32("options"))
	return r.End()
}

// channelDestroyMessage is CADET_LOCAL_CHANNEL_DESTROY.
type channelDestroyMessage struct {
	id ChannelID
}

func (*channelDestroyMessage) MessageType() msgtype.Type { return msgtype.CadetLocalChannelDestroy }

func (m *channelDestroyMessage) DecodeBody(body []byte) error {
	r := message.NewReader(body)
	m.id = ChannelID(r.Uint32("id"))
	return r.End()
}
