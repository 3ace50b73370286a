// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgtype

import "strconv"

// Type is a GNUnet wire type code.
type Type uint16

// Core and utility messages.
const (
	Test            Type = 1
	Dummy           Type = 2
	Dummy2          Type = 3
	ResolverRequest Type = 4
	ResolverReply   Type = 5
	RequestAGPL     Type = 6
	ResponseAGPL    Type = 7
	ArmStart        Type = 8
	ArmStop         Type = 9
	ArmResult       Type = 10
	ArmStatus       Type = 11
	ArmList         Type = 12
	ArmListResult   Type = 13
	ArmMonitor      Type = 14
	ArmTest         Type = 15
	HelloLegacy     Type = 16
	Hello           Type = 17
	Fragment        Type = 18
	FragmentAck     Type = 19
)

// Core service.
const (
	CoreInit      Type = 64
	CoreInitReply Type = 65
)

// DHT client messages.
const (
	DHTClientPut     Type = 142
	DHTClientGet     Type = 143
	DHTClientGetStop Type = 144
	DHTClientResult  Type = 145
)

// Statistics service.
const (
	StatisticsSet               Type = 168
	StatisticsGet               Type = 169
	StatisticsValue             Type = 170
	StatisticsEnd               Type = 171
	StatisticsWatch             Type = 172
	StatisticsWatchValue        Type = 173
	StatisticsDisconnect        Type = 174
	StatisticsDisconnectConfirm Type = 175
)

// Peerinfo service.
const (
	PeerinfoGet     Type = 330
	PeerinfoGetAll  Type = 331
	PeerinfoInfo    Type = 332
	PeerinfoInfoEnd Type = 333
	PeerinfoNotify  Type = 334
)

// Transport service.
const (
	TransportStart      Type = 360
	TransportConnect    Type = 361
	TransportDisconnect Type = 362
	TransportSend       Type = 363
	TransportSendOK     Type = 364
	TransportRecv       Type = 365
)

// Namestore service.
const (
	NamestoreRecordStore Type = 435
)

// GNS service.
const (
	GNSLookup              Type = 500
	GNSLookupResult        Type = 501
	GNSReverseLookup       Type = 503
	GNSReverseLookupResult Type = 504
)

// Identity service.
const (
	IdentityStart          Type = 624
	IdentityResultCode     Type = 625
	IdentityUpdate         Type = 626
	IdentityGetDefault     Type = 627
	IdentitySetDefault     Type = 628
	IdentityCreate         Type = 629
	IdentityRename         Type = 630
	IdentityDelete         Type = 631
	IdentityLookup         Type = 632
	IdentityLookupBySuffix Type = 633
)

// CADET service.
const (
	CadetLocalData               Type = 1020
	CadetLocalAck                Type = 1021
	CadetLocalPortOpen           Type = 1022
	CadetLocalPortClose          Type = 1023
	CadetLocalChannelCreate      Type = 1024
	CadetLocalChannelDestroy     Type = 1025
	CadetLocalRequestInfoChannel Type = 1030
	CadetLocalInfoChannel        Type = 1031
	CadetLocalInfoChannelEnd     Type = 1032
	CadetLocalRequestInfoPeers   Type = 1033
	CadetLocalInfoPeers          Type = 1034
	CadetLocalInfoPeersEnd       Type = 1035
	CadetLocalRequestInfoPath    Type = 1036
	CadetLocalInfoPath           Type = 1037
	CadetLocalInfoPathEnd        Type = 1038
	CadetLocalRequestInfoTunnels Type = 1039
	CadetLocalInfoTunnels        Type = 1040
	CadetLocalInfoTunnelsEnd     Type = 1041
)

// CadetLocalConnect registers the client's open ports on connect. It
// shares its code with CadetLocalPortOpen in the current daemon.
const CadetLocalConnect = CadetLocalPortOpen

// Kind groups wire types by the service that owns them. It is used for
// metric labels and diagnostics, never for decoding.
type Kind string

const (
	KindUtil       Kind = "util"
	KindArm        Kind = "arm"
	KindHello      Kind = "hello"
	KindCore       Kind = "core"
	KindDHT        Kind = "dht"
	KindStatistics Kind = "statistics"
	KindPeerinfo   Kind = "peerinfo"
	KindTransport  Kind = "transport"
	KindNamestore  Kind = "namestore"
	KindGNS        Kind = "gns"
	KindIdentity   Kind = "identity"
	KindCadet      Kind = "cadet"
	KindUnknown    Kind = "unknown"
)

type entry struct {
	name string
	kind Kind
}

var registry = map[Type]entry{
	Test:            {"TEST", KindUtil},
	Dummy:           {"DUMMY", KindUtil},
	Dummy2:          {"DUMMY2", KindUtil},
	ResolverRequest: {"RESOLVER_REQUEST", KindUtil},
	ResolverReply:   {"RESOLVER_RESPONSE", KindUtil},
	RequestAGPL:     {"REQUEST_AGPL", KindUtil},
	ResponseAGPL:    {"RESPONSE_AGPL", KindUtil},
	ArmStart:        {"ARM_START", KindArm},
	ArmStop:         {"ARM_STOP", KindArm},
	ArmResult:       {"ARM_RESULT", KindArm},
	ArmStatus:       {"ARM_STATUS", KindArm},
	ArmList:         {"ARM_LIST", KindArm},
	ArmListResult:   {"ARM_LIST_RESULT", KindArm},
	ArmMonitor:      {"ARM_MONITOR", KindArm},
	ArmTest:         {"ARM_TEST", KindArm},
	HelloLegacy:     {"HELLO_LEGACY", KindHello},
	Hello:           {"HELLO", KindHello},
	Fragment:        {"FRAGMENT", KindUtil},
	FragmentAck:     {"FRAGMENT_ACK", KindUtil},

	CoreInit:      {"CORE_INIT", KindCore},
	CoreInitReply: {"CORE_INIT_REPLY", KindCore},

	DHTClientPut:     {"DHT_CLIENT_PUT", KindDHT},
	DHTClientGet:     {"DHT_CLIENT_GET", KindDHT},
	DHTClientGetStop: {"DHT_CLIENT_GET_STOP", KindDHT},
	DHTClientResult:  {"DHT_CLIENT_RESULT", KindDHT},

	StatisticsSet:               {"STATISTICS_SET", KindStatistics},
	StatisticsGet:               {"STATISTICS_GET", KindStatistics},
	StatisticsValue:             {"STATISTICS_VALUE", KindStatistics},
	StatisticsEnd:               {"STATISTICS_END", KindStatistics},
	StatisticsWatch:             {"STATISTICS_WATCH", KindStatistics},
	StatisticsWatchValue:        {"STATISTICS_WATCH_VALUE", KindStatistics},
	StatisticsDisconnect:        {"STATISTICS_DISCONNECT", KindStatistics},
	StatisticsDisconnectConfirm: {"STATISTICS_DISCONNECT_CONFIRM", KindStatistics},

	PeerinfoGet:     {"PEERINFO_GET", KindPeerinfo},
	PeerinfoGetAll:  {"PEERINFO_GET_ALL", KindPeerinfo},
	PeerinfoInfo:    {"PEERINFO_INFO", KindPeerinfo},
	PeerinfoInfoEnd: {"PEERINFO_INFO_END", KindPeerinfo},
	PeerinfoNotify:  {"PEERINFO_NOTIFY", KindPeerinfo},

	TransportStart:      {"TRANSPORT_START", KindTransport},
	TransportConnect:    {"TRANSPORT_CONNECT", KindTransport},
	TransportDisconnect: {"TRANSPORT_DISCONNECT", KindTransport},
	TransportSend:       {"TRANSPORT_SEND", KindTransport},
	TransportSendOK:     {"TRANSPORT_SEND_OK", KindTransport},
	TransportRecv:       {"TRANSPORT_RECV", KindTransport},

	NamestoreRecordStore: {"NAMESTORE_RECORD_STORE", KindNamestore},

	GNSLookup:              {"GNS_LOOKUP", KindGNS},
	GNSLookupResult:        {"GNS_LOOKUP_RESULT", KindGNS},
	GNSReverseLookup:       {"GNS_REVERSE_LOOKUP", KindGNS},
	GNSReverseLookupResult: {"GNS_REVERSE_LOOKUP_RESULT", KindGNS},

	IdentityStart:          {"IDENTITY_START", KindIdentity},
	IdentityResultCode:     {"IDENTITY_RESULT_CODE", KindIdentity},
	IdentityUpdate:         {"IDENTITY_UPDATE", KindIdentity},
	IdentityGetDefault:     {"IDENTITY_GET_DEFAULT", KindIdentity},
	IdentitySetDefault:     {"IDENTITY_SET_DEFAULT", KindIdentity},
	IdentityCreate:         {"IDENTITY_CREATE", KindIdentity},
	IdentityRename:         {"IDENTITY_RENAME", KindIdentity},
	IdentityDelete:         {"IDENTITY_DELETE", KindIdentity},
	IdentityLookup:         {"IDENTITY_LOOKUP", KindIdentity},
	IdentityLookupBySuffix: {"IDENTITY_LOOKUP_BY_SUFFIX", KindIdentity},

	CadetLocalData:               {"CADET_LOCAL_DATA", KindCadet},
	CadetLocalAck:                {"CADET_LOCAL_ACK", KindCadet},
	CadetLocalPortOpen:           {"CADET_LOCAL_PORT_OPEN", KindCadet},
	CadetLocalPortClose:          {"CADET_LOCAL_PORT_CLOSE", KindCadet},
	CadetLocalChannelCreate:      {"CADET_LOCAL_CHANNEL_CREATE", KindCadet},
	CadetLocalChannelDestroy:     {"CADET_LOCAL_CHANNEL_DESTROY", KindCadet},
	CadetLocalRequestInfoChannel: {"CADET_LOCAL_REQUEST_INFO_CHANNEL", KindCadet},
	CadetLocalInfoChannel:        {"CADET_LOCAL_INFO_CHANNEL", KindCadet},
	CadetLocalInfoChannelEnd:     {"CADET_LOCAL_INFO_CHANNEL_END", KindCadet},
	CadetLocalRequestInfoPeers:   {"CADET_LOCAL_REQUEST_INFO_PEERS", KindCadet},
	CadetLocalInfoPeers:          {"CADET_LOCAL_INFO_PEERS", KindCadet},
	CadetLocalInfoPeersEnd:       {"CADET_LOCAL_INFO_PEERS_END", KindCadet},
	CadetLocalRequestInfoPath:    {"CADET_LOCAL_REQUEST_INFO_PATH", KindCadet},
	CadetLocalInfoPath:           {"CADET_LOCAL_INFO_PATH", KindCadet},
	CadetLocalInfoPathEnd:        {"CADET_LOCAL_INFO_PATH_END", KindCadet},
	CadetLocalRequestInfoTunnels: {"CADET_LOCAL_REQUEST_INFO_TUNNELS", KindCadet},
	CadetLocalInfoTunnels:        {"CADET_LOCAL_INFO_TUNNELS", KindCadet},
	CadetLocalInfoTunnelsEnd:     {"CADET_LOCAL_INFO_TUNNELS_END", KindCadet},
}

// Lookup maps a raw wire code to its Type and owning Kind. known is
// false for codes outside the registry; the returned Type still
// carries the code and the Kind is KindUnknown.
func Lookup(code uint16) (typ Type, kind Kind, known bool) {
	typ = Type(code)
	registered, ok := registry[typ]
	if !ok {
		return typ, KindUnknown, false
	}
	return typ, registered.kind, true
}

// Known reports whether t is in the registry.
func (t Type) Known() bool {
	_, ok := registry[t]
	return ok
}

// Kind returns the service family of t, or KindUnknown.
func (t Type) Kind() Kind {
	if registered, ok := registry[t]; ok {
		return registered.kind
	}
	return KindUnknown
}

// String returns the protocol name of t (e.g. "GNS_LOOKUP_RESULT"),
// or "unknown(N)" for unregistered codes.
func (t Type) String() string {
	if registered, ok := registry[t]; ok {
		return registered.name
	}
	return "unknown(" + strconv.Itoa(int(t)) + ")"
}

// Parse maps a protocol name back to its Type. It accepts the form
// produced by String, including "unknown(N)", and bare decimal codes.
func Parse(name string) (Type, bool) {
	for typ, registered := range registry {
		if registered.name == name {
			return typ, true
		}
	}
	digits := name
	if len(name) > len("unknown()") && name[:8] == "unknown(" && name[len(name)-1] == ')' {
		digits = name[8 : len(name)-1]
	}
	code, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return 0, false
	}
	return Type(code), true
}
