// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package peerinfo

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net/netip"
	"testing"
	"time"

	"github.com/bureau-foundation/gnunet/lib/gnstime"
	"github.com/bureau-foundation/gnunet/lib/hello"
	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
	"github.com/bureau-foundation/gnunet/lib/testutil"
	"github.com/bureau-foundation/gnunet/service"
)

func testPeer(seed byte) peer.Identity {
	var id peer.Identity
	for i := range id {
		id[i] = seed ^ byte(i)
	}
	return id
}

func infoBody(t *testing.T, id peer.Identity, h *hello.Hello) []byte {
	t.Helper()
	builder := message.NewBuilder(infoPrefixSize).Uint32(0).Raw(id[:])
	if h != nil {
		encoded, err := h.Message()
		if err != nil {
			t.Fatalf("encoding HELLO: %v", err)
		}
		builder.Raw(encoded.Bytes())
	}
	return builder.Bytes()
}

func newClient(t *testing.T, script func(*testutil.DaemonConn)) *Client {
	t.Helper()
	client := New(service.FromConn(ServiceName, testutil.ServePair(t, script)))
	t.Cleanup(func() { client.Close() })
	return client
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestPeers(t *testing.T) {
	alice, bob := testPeer(1), testPeer(2)
	aliceHello := &hello.Hello{
		Peer: alice,
		Addresses: []hello.Address{{
			Transport:  "tcp",
			Expiration: gnstime.Absolute(1_800_000_000_000_000),
			Data:       hello.EncodeTCPAddress(netip.MustParseAddrPort("192.0.2.10:2086"), 0),
		}},
	}

	client := newClient(t, func(d *testutil.DaemonConn) {
		body := d.Expect(msgtype.PeerinfoGetAll)
		if !bytes.Equal(body, []byte{0, 0, 0, 0}) {
			t.Errorf("PEERINFO_GET_ALL body = %v, want include_friend_only 0", body)
		}
		d.Write(msgtype.PeerinfoInfo, infoBody(t, alice, aliceHello))
		d.Write(msgtype.PeerinfoInfo, infoBody(t, bob, nil))
		d.Write(msgtype.PeerinfoInfoEnd, nil)
	})

	peers, err := client.Peers(testContext(t))
	if err != nil {
		t.Fatalf("Peers: %v", err)
	}
	if len(peers) != 2 {
		t.Fatalf("got %d peers, want 2", len(peers))
	}
	if peers[0].Peer != alice || peers[0].Hello == nil {
		t.Fatalf("first peer = %+v, want alice with a HELLO", peers[0])
	}
	if got := peers[0].Hello.Addresses; len(got) != 1 || got[0].String() != "tcp://192.0.2.10:2086" {
		t.Errorf("alice addresses = %v", got)
	}
	if peers[1].Peer != bob || peers[1].Hello != nil {
		t.Errorf("second peer = %+v, want bob without a HELLO", peers[1])
	}
}

func TestGet(t *testing.T) {
	target := testPeer(7)
	client := newClient(t, func(d *testutil.DaemonConn) {
		body := d.Expect(msgtype.PeerinfoGet)
		if len(body) != getSize {
			d.Fatalf("PEERINFO_GET body is %d bytes, want %d", len(body), getSize)
		}
		if friendOnly := binary.BigEndian.Uint32(body); friendOnly != 1 {
			t.Errorf("include_friend_only = %d, want 1", friendOnly)
		}
		if !bytes.Equal(body[4:], target[:]) {
			t.Errorf("requested peer %x, want %x", body[4:], target[:])
		}
		d.Write(msgtype.PeerinfoInfo, infoBody(t, target, &hello.Hello{Peer: target, FriendOnly: true}))
		d.Write(msgtype.PeerinfoInfoEnd, nil)

		d.Expect(msgtype.PeerinfoGet)
		d.Write(msgtype.PeerinfoInfoEnd, nil)
	})
	client.IncludeFriendOnly = true
	ctx := testContext(t)

	info, ok, err := client.Get(ctx, target)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || info.Hello == nil || !info.Hello.FriendOnly {
		t.Errorf("Get = %+v, %v; want a friend-only HELLO", info, ok)
	}

	_, ok, err = client.Get(ctx, testPeer(8))
	if err != nil {
		t.Fatalf("Get unknown peer: %v", err)
	}
	if ok {
		t.Error("Get reported an unknown peer as known")
	}
}

func TestIterateStop(t *testing.T) {
	client := newClient(t, func(d *testutil.DaemonConn) {
		d.Expect(msgtype.PeerinfoGetAll)
		d.Write(msgtype.PeerinfoInfo, infoBody(t, testPeer(1), nil))
		d.Write(msgtype.PeerinfoInfo, infoBody(t, testPeer(2), nil))
		d.Write(msgtype.PeerinfoInfoEnd, nil)
	})
	ctx := testContext(t)

	var seen int
	err := client.Iterate(ctx, nil, func(Info) error {
		seen++
		return ErrStop
	})
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if seen != 1 {
		t.Errorf("callback ran %d times, want 1", seen)
	}
	if _, err := client.Peers(ctx); !errors.Is(err, service.ErrSequenceLost) {
		t.Errorf("Peers after early stop: error = %v, want ErrSequenceLost", err)
	}
}

func TestIterateRejectsMalformedInfo(t *testing.T) {
	mismatched := testPeer(3)
	tests := []struct {
		name string
		body func(t *testing.T) []byte
	}{
		{"short", func(*testing.T) []byte { return []byte{0, 0, 0, 0, 1, 2} }},
		{"reserved set", func(t *testing.T) []byte {
			body := infoBody(t, testPeer(1), nil)
			body[3] = 1
			return body
		}},
		{"embedded non-HELLO", func(t *testing.T) []byte {
			body := infoBody(t, testPeer(1), nil)
			return append(body, 0, 4, 0, 1)
		}},
		{"embedded length mismatch", func(t *testing.T) []byte {
			body := infoBody(t, testPeer(1), &hello.Hello{Peer: testPeer(1)})
			return append(body, 0)
		}},
		{"HELLO for another peer", func(t *testing.T) []byte {
			return infoBody(t, testPeer(1), &hello.Hello{Peer: mismatched})
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body := test.body(t)
			client := newClient(t, func(d *testutil.DaemonConn) {
				d.Expect(msgtype.PeerinfoGetAll)
				d.Write(msgtype.PeerinfoInfo, body)
			})
			_, err := client.Peers(testContext(t))
			if !errors.Is(err, message.ErrParseFailure) {
				t.Errorf("Peers error = %v, want a parse failure", err)
			}
		})
	}
}

func TestIterateUnexpectedMessage(t *testing.T) {
	client := newClient(t, func(d *testutil.DaemonConn) {
		d.Expect(msgtype.PeerinfoGetAll)
		d.Write(msgtype.Hello, nil)
	})
	_, err := client.Peers(testContext(t))
	if !errors.Is(err, message.ErrUnexpectedMessage) {
		t.Errorf("Peers error = %v, want ErrUnexpectedMessage", err)
	}
}

func FuzzInfo(f *testing.F) {
	id := testPeer(9)
	encoded, err := (&hello.Hello{Peer: id}).Message()
	if err != nil {
		f.Fatal(err)
	}
	f.Add(append(message.NewBuilder(0).Uint32(0).Raw(id[:]).Bytes(), encoded.Bytes()...))
	f.Add(make([]byte, infoPrefixSize))
	f.Fuzz(func(t *testing.T, body []byte) {
		var info infoMessage
		if err := info.DecodeBody(body); err != nil {
			return
		}
		if info.info.Hello != nil && info.info.Hello.Peer != info.info.Peer {
			t.Errorf("accepted a HELLO for %v inside info for %v", info.info.Hello.Peer, info.info.Peer)
		}
	})
}
