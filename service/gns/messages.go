// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gns

import (
	"encoding/binary"

	"github.com/bureau-foundation/gnunet/lib/message"
	"github.com/bureau-foundation/gnunet/lib/msgtype"
	"github.com/bureau-foundation/gnunet/lib/peer"
)

// MaxNameLength is the longest name a lookup accepts, in bytes.
const MaxNameLength = 253

const (
	// id, zone, options, have_key, record_type, shorten_key.
	lookupPrefixSize = 4 + peer.KeySize + 2 + 2 + 4 + peer.KeySize
	// id, rd_count.
	resultPrefixSize = 4 + 4
	// expiration, data_size, record_type, flags.
	recordHeaderSize = 8 + 4 + 4 + 4
)

// newLookupMessage builds GNS_LOOKUP. A nil shorten sends have_key=0
// and a zero key.
func newLookupMessage(id uint32, name string, zone peer.PublicKey, recordType RecordType, options LocalOptions, shorten *peer.PrivateKey) (*message.Compound, error) {
	var haveKey int16
	var shortenKey peer.PrivateKey
	if shorten != nil {
		haveKey = 1
		shortenKey = *shorten
	}
	prefix := message.NewBuilder(lookupPrefixSize).
		Uint32(id).
		Raw(zone[:]).
		Int16(int16(options)).
		Int16(haveKey).
		Int32(int32(recordType)).
		Raw(shortenKey[:]).
		Bytes()
	return message.NewStringMessage(msgtype.GNSLookup, prefix, name)
}

// lookupID extracts the request id echoed at the start of a
// GNS_LOOKUP_RESULT.
func lookupID(typ msgtype.Type, body []byte) (uint32, bool) {
	if typ != msgtype.GNSLookupResult || len(body) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(body), true
}

// lookupResultMessage is GNS_LOOKUP_RESULT.
type lookupResultMessage struct {
	id      uint32
	records []Record
}

func (*lookupResultMessage) MessageType() msgtype.Type { return msgtype.GNSLookupResult }

func (m *lookupResultMessage) DecodeBody(body []byte) error {
	r := message.NewReader(body)
	m.id = r.Uint32("id")
	count := r.Uint32("rd_count")
	// Every record needs at least its header, which bounds a hostile count.
	if r.Err() == nil && uint64(count)*recordHeaderSize > uint64(r.Remaining()) {
		r.Fail("rd_count", "more records than the body can hold")
	}
	if r.Err() != nil {
		return r.Err()
	}
	m.records = make([]Record, 0, count)
	for range count {
		var record Record
		record.Expiration = r.Uint64("expiration")
		size := r.Uint32("data_size")
		record.Type = RecordType(r.Uint32("record_type"))
		record.Flags = RecordFlags(r.Uint32("flags"))
		if r.Err() == nil && uint64(size) > uint64(r.Remaining()) {
			r.Fail("data", "record data overruns the body")
		}
		if r.Err() != nil {
			return r.Err()
		}
		record.Data = append([]byte(nil), r.Bytes("data", int(size))...)
		m.records = append(m.records, record)
	}
	return r.End()
}
