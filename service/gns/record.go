// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gns

import (
	"encoding/hex"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/gnunet/lib/gnstime"
	"github.com/bureau-foundation/gnunet/lib/peer"
)

// RecordType is a GNS record type. Values below 65536 are DNS types.
type RecordType uint32

const (
	TypeAny     RecordType = 0
	TypeA       RecordType = 1
	TypeNS      RecordType = 2
	TypeCNAME   RecordType = 5
	TypeSOA     RecordType = 6
	TypePTR     RecordType = 12
	TypeMX      RecordType = 15
	TypeTXT     RecordType = 16
	TypeAAAA    RecordType = 28
	TypeTLSA    RecordType = 52
	TypePKEY    RecordType = 65536
	TypeNICK    RecordType = 65537
	TypeLEHO    RecordType = 65538
	TypeVPN     RecordType = 65539
	TypeGNS2DNS RecordType = 65540
)

var recordTypeNames = map[RecordType]string{
	TypeAny:     "ANY",
	TypeA:       "A",
	TypeNS:      "NS",
	TypeCNAME:   "CNAME",
	TypeSOA:     "SOA",
	TypePTR:     "PTR",
	TypeMX:      "MX",
	TypeTXT:     "TXT",
	TypeAAAA:    "AAAA",
	TypeTLSA:    "TLSA",
	TypePKEY:    "PKEY",
	TypeNICK:    "NICK",
	TypeLEHO:    "LEHO",
	TypeVPN:     "VPN",
	TypeGNS2DNS: "GNS2DNS",
}

func (t RecordType) String() string {
	if name, ok := recordTypeNames[t]; ok {
		return name
	}
	return "TYPE" + strconv.FormatUint(uint64(t), 10)
}

// ParseRecordType accepts a type name ("AAAA", case-insensitive),
// the generic "TYPEnnn" form or a decimal number.
func ParseRecordType(text string) (RecordType, error) {
	upper := strings.ToUpper(text)
	for recordType, name := range recordTypeNames {
		if name == upper {
			return recordType, nil
		}
	}
	number, err := strconv.ParseUint(strings.TrimPrefix(upper, "TYPE"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("gns: unknown record type %q", text)
	}
	return RecordType(number), nil
}

// RecordFlags qualify a record.
type RecordFlags uint32

const (
	FlagPrivate            RecordFlags = 2
	FlagPending            RecordFlags = 4
	FlagRelativeExpiration RecordFlags = 8
	FlagShadow             RecordFlags = 16
)

func (f RecordFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, flag := range []struct {
		bit  RecordFlags
		name string
	}{
		{FlagPrivate, "private"},
		{FlagPending, "pending"},
		{FlagRelativeExpiration, "relative-expiration"},
		{FlagShadow, "shadow"},
	} {
		if f&flag.bit != 0 {
			names = append(names, flag.name)
			f &^= flag.bit
		}
	}
	if f != 0 {
		names = append(names, fmt.Sprintf("%#x", uint32(f)))
	}
	return strings.Join(names, "|")
}

// Record is one resource record of a lookup result.
type Record struct {
	// Expiration is an absolute time, or a relative one when Flags
	// has FlagRelativeExpiration.
	Expiration uint64
	Type       RecordType
	Flags      RecordFlags
	Data       []byte
}

// ExpiresAt returns the absolute expiration of r, resolving a relative
// expiration against now.
func (r Record) ExpiresAt(now time.Time) gnstime.Absolute {
	if r.Flags&FlagRelativeExpiration == 0 {
		return gnstime.Absolute(r.Expiration)
	}
	relative := gnstime.Relative(r.Expiration)
	if relative.IsForever() {
		return gnstime.Forever
	}
	return gnstime.FromTime(now.Add(relative.Duration()))
}

// Expired reports whether r is no longer valid at now.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt(now).Before(now)
}

// Value renders the record data in the usual presentation form of its
// type. Data that does not fit its type is shown as hex.
func (r Record) Value() string {
	switch r.Type {
	case TypeA:
		if address, ok := netip.AddrFromSlice(r.Data); ok && address.Is4() {
			return address.String()
		}
	case TypeAAAA:
		if len(r.Data) == 16 {
			if address, ok := netip.AddrFromSlice(r.Data); ok {
				return address.String()
			}
		}
	case TypePKEY:
		if len(r.Data) == peer.KeySize {
			return peer.PublicKey(r.Data).String()
		}
	case TypeCNAME, TypeNS, TypePTR, TypeTXT, TypeNICK, TypeLEHO:
		if text := strings.TrimSuffix(string(r.Data), "\x00"); utf8.ValidString(text) {
			return text
		}
	case TypeMX:
		if len(r.Data) > 2 {
			preference := uint16(r.Data[0])<<8 | uint16(r.Data[1])
			return fmt.Sprintf("%d %s", preference, strings.TrimSuffix(string(r.Data[2:]), "\x00"))
		}
	}
	return hex.EncodeToString(r.Data)
}

func (r Record) String() string {
	return r.Type.String() + " " + r.Value()
}
