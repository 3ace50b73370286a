// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peerinfo

import (
	"github.com/bureau-foundation/gnunet/lib/hello"
	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
)

const (
	// include_friend_only.
	getAllSize = 4
	// include_friend_only, peer.
	getSize = 4 + peer.KeySize
	// reserved, peer.
	infoPrefixSize = 4 + peer.KeySize
)

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func newGetAllMessage(includeFriendOnly bool) *message.Fixed {
	return message.MustFixed(msgtype.PeerinfoGetAll,
		message.NewBuilder(getAllSize).Uint32(boolWord(includeFriendOnly)).Bytes())
}

func newGetMessage(includeFriendOnly bool, id peer.Identity) *message.Fixed {
	return message.MustFixed(msgtype.PeerinfoGet,
		message.NewBuilder(getSize).Uint32(boolWord(includeFriendOnly)).Raw(id[:]).Bytes())
}

// infoMessage is PEERINFO_INFO.
type infoMessage struct {
	info Info
}

func (*infoMessage) MessageType() msgtype.Type { return msgtype.PeerinfoInfo }

func (m *infoMessage) DecodeBody(body []byte) error {
	r := message.NewReader(body)
	if reserved := r.Uint32("reserved"); reserved != 0 && r.Err() == nil {
		r.Fail("reserved", "reserved field is not zero")
	}
	r.Copy("peer", m.info.Peer[:])
	if err := r.Err(); err != nil {
		return err
	}
	if r.Remaining() == 0 {
		return nil
	}

	embedded := r.Rest()
	header, err := message.DecodeHeader(embedded)
	if err != nil {
		return &message.ParseError{Field: "hello", Offset: infoPrefixSize, Need: message.HeaderSize, Have: len(embedded)}
	}
	if header.Type != msgtype.Hello {
		return &message.ParseError{Field: "hello", Offset: infoPrefixSize, Reason: "embedded message is " + header.Type.String()}
	}
	if int(header.Length) != len(embedded) {
		return &message.ParseError{Field: "hello", Offset: infoPrefixSize, Need: int(header.Length), Have: len(embedded)}
	}
	decoded, err := hello.Decode(embedded[message.HeaderSize:])
	if err != nil {
		return &message.ParseError{Field: "hello", Offset: infoPrefixSize, Err: err}
	}
	if decoded.Peer != m.info.Peer {
		return &message.ParseError{Field: "hello", Offset: infoPrefixSize, Reason: "HELLO is for " + decoded.Peer.String()}
	}
	m.info.Hello = decoded
	return nil
}

// infoEndMessage is PEERINFO_INFO_END.
type infoEndMessage struct{}

func (*infoEndMessage) MessageType() msgtype.Type { return msgtype.PeerinfoInfoEnd }

func (*infoEndMessage) DecodeBody(body []byte) error {
	return message.NewReader(body).End()
}
