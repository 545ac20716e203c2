package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("unknown status code")

// StatusCode is the KNXnet/IP error code carried by response frames.
type StatusCode uint8

const (
	StatusNoError             StatusCode = 0x00
	StatusHostProtocolType    StatusCode = 0x01
	StatusVersionNotSupported StatusCode = 0x02
	StatusSequenceNumber      StatusCode = 0x04
	StatusConnectionID        StatusCode = 0x21
	StatusConnectionType      StatusCode = 0x22
	StatusConnectionOption    StatusCode = 0x23
	StatusNoMoreConnections   StatusCode = 0x24
	StatusDataConnection      StatusCode = 0x26
	StatusKNXConnection       StatusCode = 0x27
	StatusTunnellingLayer     StatusCode = 0x29

	// StatusConnectionTableFull is the gateway's answer when every tunnel slot is taken.
	StatusConnectionTableFull = StatusNoMoreConnections
)

var statusNames = map[StatusCode]string{
	StatusNoError:             "E_NO_ERROR",
	StatusHostProtocolType:    "E_HOST_PROTOCOL_TYPE",
	StatusVersionNotSupported: "E_VERSION_NOT_SUPPORTED",
	StatusSequenceNumber:      "E_SEQUENCE_NUMBER",
	StatusConnectionID:        "E_CONNECTION_ID",
	StatusConnectionType:      "E_CONNECTION_TYPE",
	StatusConnectionOption:    "E_CONNECTION_OPTION",
	StatusNoMoreConnections:   "E_NO_MORE_CONNECTIONS",
	StatusDataConnection:      "E_DATA_CONNECTION",
	StatusKNXConnection:       "E_KNX_CONNECTION",
	StatusTunnellingLayer:     "E_TUNNELLING_LAYER",
}

func (c StatusCode) String() string {
	if name, ok := statusNames[c]; ok {
		return name
	}
	return fmt.Sprintf("E_UNKNOWN(0x%02x)", uint8(c))
}

// OK reports whether c is the reserved "no error" value.
func (c StatusCode) OK() bool { return c == StatusNoError }

// ParseStatus maps a raw byte to a StatusCode. Unknown values are still
// returned, together with ErrUnknownStatus, so callers can log and carry on.
func ParseStatus(b byte) (StatusCode, error) {
	c := StatusCode(b)
	if _, ok := statusNames[c]; !ok {
		return c, fmt.Errorf("%w: 0x%02x", ErrUnknownStatus, b)
	}
	return c, nil
}
