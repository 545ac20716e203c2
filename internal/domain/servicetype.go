// Package domain contains KNXnet/IP values without behaviour, just meta-data
package domain

import "fmt"

// ServiceType tags a KNXnet/IP frame with its message kind.
type ServiceType uint16

const (
	SearchRequest           ServiceType = 0x0201
	SearchResponse          ServiceType = 0x0202
	DescriptionRequest      ServiceType = 0x0203
	DescriptionResponse     ServiceType = 0x0204
	ConnectRequest          ServiceType = 0x0205
	ConnectResponse         ServiceType = 0x0206
	ConnectionStateRequest  ServiceType = 0x0207
	ConnectionStateResponse ServiceType = 0x0208
	DisconnectRequest       ServiceType = 0x0209
	DisconnectResponse      ServiceType = 0x020A
	TunnellingRequest       ServiceType = 0x0420
	TunnellingAck           ServiceType = 0x0421
	RoutingIndication       ServiceType = 0x0530
)

var serviceTypeNames = map[ServiceType]string{
	SearchRequest:           "SEARCH_REQUEST",
	SearchResponse:          "SEARCH_RESPONSE",
	DescriptionRequest:      "DESCRIPTION_REQUEST",
	DescriptionResponse:     "DESCRIPTION_RESPONSE",
	ConnectRequest:          "CONNECT_REQUEST",
	ConnectResponse:         "CONNECT_RESPONSE",
	ConnectionStateRequest:  "CONNECTIONSTATE_REQUEST",
	ConnectionStateResponse: "CONNECTIONSTATE_RESPONSE",
	DisconnectRequest:       "DISCONNECT_REQUEST",
	DisconnectResponse:      "DISCONNECT_RESPONSE",
	TunnellingRequest:       "TUNNELLING_REQUEST",
	TunnellingAck:           "TUNNELLING_ACK",
	RoutingIndication:       "ROUTING_INDICATION",
}

func (s ServiceType) String() string {
	if name, ok := serviceTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SERVICE_TYPE(0x%04x)", uint16(s))
}

// Known reports whether s is one of the service types listed above.
func (s ServiceType) Known() bool {
	_, ok := serviceTypeNames[s]
	return ok
}
