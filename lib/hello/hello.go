// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hello decodes and encodes HELLO messages: a peer's identity
// plus the transport addresses it can be reached at.
//
// A HELLO body is a fixed prefix followed by zero or more addresses:
//
//	friend_only  u32
//	peer         32 bytes
//	repeated:
//	  transport   NUL-terminated name ("tcp", "udp", ...)
//	  addr_len    u16
//	  expiration  u64 (gnstime.Absolute)
//	  address     addr_len bytes, transport-specific
//
// The same body is embedded after the fixed part of PEERINFO_INFO
// messages.
package hello

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/bureau-foundation/gnunet/lib/gnstime"
	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
)

// PrefixSize is the size of the fixed part of a HELLO body.
const PrefixSize = 4 + peer.KeySize

// Hello is a decoded HELLO.
type Hello struct {
	FriendOnly bool
	Peer       peer.Identity
	Addresses  []Address
}

// Address is one transport address inside a HELLO.
type Address struct {
	Transport  string
	Expiration gnstime.Absolute
	// Data is the transport plugin's binary address. It aliases the
	// message body it was decoded from.
	Data []byte
}

// MessageType implements message.Decoder.
func (*Hello) MessageType() msgtype.Type { return msgtype.Hello }

// DecodeBody implements message.Decoder.
func (h *Hello) DecodeBody(body []byte) error {
	reader := message.NewReader(body)
	h.FriendOnly = reader.Uint32("friend_only") != 0
	reader.Copy("peer", h.Peer[:])
	h.Addresses = nil
	for reader.Err() == nil && reader.Remaining() > 0 {
		var address Address
		address.Transport = reader.CString("transport")
		if reader.Err() == nil && address.Transport == "" {
			reader.Fail("transport", "empty transport name")
		}
		addressLength := reader.Uint16("addr_len")
		address.Expiration = gnstime.Absolute(reader.Uint64("expiration"))
		address.Data = reader.Bytes("address", int(addressLength))
		if reader.Err() == nil {
			h.Addresses = append(h.Addresses, address)
		}
	}
	return reader.Err()
}

// Decode parses a HELLO body.
func Decode(body []byte) (*Hello, error) {
	h := new(Hello)
	if err := h.DecodeBody(body); err != nil {
		return nil, err
	}
	return h, nil
}

// AppendBody appends the wire body of h to dst.
func (h *Hello) AppendBody(dst []byte) ([]byte, error) {
	var friendOnly uint32
	if h.FriendOnly {
		friendOnly = 1
	}
	builder := message.NewBuilder(PrefixSize).Uint32(friendOnly).Raw(h.Peer[:])
	for _, address := range h.Addresses {
		if address.Transport == "" || strings.IndexByte(address.Transport, 0) >= 0 {
			return nil, fmt.Errorf("hello: invalid transport name %q", address.Transport)
		}
		if len(address.Data) > 0xFFFF {
			return nil, fmt.Errorf("hello: %s address is %d bytes", address.Transport, len(address.Data))
		}
		builder.Raw([]byte(address.Transport)).Raw([]byte{0}).
			Uint16(uint16(len(address.Data))).
			Uint64(uint64(address.Expiration)).
			Raw(address.Data)
	}
	return append(dst, builder.Bytes()...), nil
}

// Message encodes h as a HELLO message.
func (h *Hello) Message() (*message.Fixed, error) {
	body, err := h.AppendBody(nil)
	if err != nil {
		return nil, err
	}
	return message.NewFixed(msgtype.Hello, body)
}

// WithoutAddresses returns a copy of h with no addresses.
func (h *Hello) WithoutAddresses() *Hello {
	return &Hello{FriendOnly: h.FriendOnly, Peer: h.Peer}
}

// String renders a TCP address as host:port and anything else as the
// transport name and a hex dump.
func (a Address) String() string {
	if a.Transport == "tcp" {
		if endpoint, _, err := ParseTCPAddress(a.Data); err == nil {
			return "tcp://" + endpoint.String()
		}
	}
	return fmt.Sprintf("%s:%x", a.Transport, a.Data)
}

// TCP address sizes: options u32, address, port u16.
const (
	tcpIPv4Size = 4 + 4 + 2
	tcpIPv6Size = 4 + 16 + 2
)

// ParseTCPAddress decodes the tcp transport's address format.
func ParseTCPAddress(data []byte) (endpoint netip.AddrPort, options uint32, err error) {
	reader := message.NewReader(data)
	options = reader.Uint32("options")
	var address netip.Addr
	switch len(data) {
	case tcpIPv4Size:
		var ip [4]byte
		reader.Copy("ipv4", ip[:])
		address = netip.AddrFrom4(ip)
	case tcpIPv6Size:
		var ip [16]byte
		reader.Copy("ipv6", ip[:])
		address = netip.AddrFrom16(ip)
	default:
		return netip.AddrPort{}, 0, &message.ParseError{Field: "tcp address", Reason: fmt.Sprintf("length %d is neither %d nor %d", len(data), tcpIPv4Size, tcpIPv6Size)}
	}
	port := reader.Uint16("port")
	if err := reader.End(); err != nil {
		return netip.AddrPort{}, 0, err
	}
	return netip.AddrPortFrom(address, port), options, nil
}

// EncodeTCPAddress is the inverse of ParseTCPAddress.
func EncodeTCPAddress(endpoint netip.AddrPort, options uint32) []byte {
	address := endpoint.Addr()
	builder := message.NewBuilder(tcpIPv6Size).Uint32(options)
	if address.Is4() {
		ip := address.As4()
		builder.Raw(ip[:])
	} else {
		ip := address.As16()
		builder.Raw(ip[:])
	}
	return builder.Uint16(endpoint.Port()).Bytes()
}
