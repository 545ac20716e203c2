// Package codec encodes and decodes the KNXnet/IP frames the client needs:
// the common header, status extraction for response services, and the
// connect / connection-state / disconnect request bodies.
//
// Frame layout on the wire:
//
//	[1B header len 0x06][1B version 0x10][2B service type][2B total length][body...]
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"github.com/dkeye/knxip/internal/domain"
)

const (
	HeaderLength    = 0x06
	ProtocolVersion = 0x10

	hpaiLength     = 0x08
	hostProtoUDPv4 = 0x01

	criLength            = 0x04
	ConnectionTypeTunnel = 0x04
	tunnelLinkLayer      = 0x02

	// MaxFrameLength bounds the total length field.
	MaxFrameLength = 0xFFFF
)

var (
	ErrShortFrame     = errors.New("knxip: frame shorter than header")
	ErrHeader         = errors.New("knxip: invalid header")
	ErrLengthMismatch = errors.New("knxip: total length does not match datagram")
	ErrShortBody      = errors.New("knxip: body too short")
	ErrHPAI           = errors.New("knxip: invalid HPAI")
	ErrFrameTooLarge  = errors.New("knxip: frame exceeds maximum length")
)

// statusOffset returns where the status byte sits in the body of response
// services that carry one.
func statusOffset(st domain.ServiceType) (int, bool) {
	switch st {
	case domain.ConnectResponse, domain.ConnectionStateResponse, domain.DisconnectResponse:
		// channel id, status
		return 1, true
	case domain.TunnellingAck:
		// structure length, channel id, sequence counter, status
		return 3, true
	}
	return 0, false
}

// Encode serialises f with a freshly computed header.
func Encode(f domain.Frame) ([]byte, error) {
	body := f.Payload()
	total := HeaderLength + len(body)
	if total > MaxFrameLength {
		return nil, ErrFrameTooLarge
	}
	out := make([]byte, HeaderLength, total)
	out[0] = HeaderLength
	out[1] = ProtocolVersion
	binary.BigEndian.PutUint16(out[2:4], uint16(f.ServiceType()))
	binary.BigEndian.PutUint16(out[4:6], uint16(total))
	return append(out, body...), nil
}

// Decode parses one datagram. Unknown service types decode fine; they simply
// never carry a status.
func Decode(b []byte) (domain.Frame, error) {
	if len(b) < HeaderLength {
		return domain.Frame{}, fmt.Errorf("%w (%d bytes)", ErrShortFrame, len(b))
	}
	if b[0] != HeaderLength || b[1] != ProtocolVersion {
		return domain.Frame{}, fmt.Errorf("%w: length 0x%02x version 0x%02x", ErrHeader, b[0], b[1])
	}
	st := domain.ServiceType(binary.BigEndian.Uint16(b[2:4]))
	total := int(binary.BigEndian.Uint16(b[4:6]))
	if total != len(b) {
		return domain.Frame{}, fmt.Errorf("%w: declared %d, received %d", ErrLengthMismatch, total, len(b))
	}
	body := b[HeaderLength:]

	off, ok := statusOffset(st)
	if !ok {
		return domain.NewFrame(st, body), nil
	}
	if len(body) <= off {
		return domain.Frame{}, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortBody, st, off+1, len(body))
	}
	// Unknown codes are kept as-is; they still classify as a failure.
	status, _ := domain.ParseStatus(body[off])
	return domain.NewResponseFrame(st, status, body), nil
}

// AppendEndpoint writes e as an IPv4/UDP HPAI. A non-IPv4 address is
// written as 0.0.0.0.
func AppendEndpoint(buf []byte, e domain.Endpoint) []byte {
	var ip [4]byte
	if e.Addr.Is4() {
		ip = e.Addr.As4()
	}
	buf = append(buf, hpaiLength, hostProtoUDPv4)
	buf = append(buf, ip[:]...)
	return binary.BigEndian.AppendUint16(buf, e.Port)
}

// ParseEndpoint reads an HPAI from the start of b.
func ParseEndpoint(b []byte) (domain.Endpoint, error) {
	if len(b) < hpaiLength {
		return domain.Endpoint{}, fmt.Errorf("%w: %d bytes", ErrHPAI, len(b))
	}
	if b[0] != hpaiLength || b[1] != hostProtoUDPv4 {
		return domain.Endpoint{}, fmt.Errorf("%w: length 0x%02x protocol 0x%02x", ErrHPAI, b[0], b[1])
	}
	return domain.Endpoint{
		Addr: netip.AddrFrom4([4]byte(b[2:6])),
		Port: binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// ConnectRequestFrame asks for a tunnelling connection on the link layer.
func ConnectRequestFrame(control, data domain.Endpoint) domain.Frame {
	body := make([]byte, 0, 2*hpaiLength+criLength)
	body = AppendEndpoint(body, control)
	body = AppendEndpoint(body, data)
	body = append(body, criLength, ConnectionTypeTunnel, tunnelLinkLayer, 0x00)
	return domain.NewFrame(domain.ConnectRequest, body)
}

// ConnectionStateRequestFrame is the tunnel heartbeat.
func ConnectionStateRequestFrame(channel uint8, control domain.Endpoint) domain.Frame {
	return domain.NewFrame(domain.ConnectionStateRequest, channelBody(channel, control))
}

func DisconnectRequestFrame(channel uint8, control domain.Endpoint) domain.Frame {
	return domain.NewFrame(domain.DisconnectRequest, channelBody(channel, control))
}

func channelBody(channel uint8, control domain.Endpoint) []byte {
	body := make([]byte, 0, 2+hpaiLength)
	body = append(body, channel, 0x00)
	return AppendEndpoint(body, control)
}

// ChannelResponseFrame builds the body shared by connection-state and
// disconnect responses. Gateways send these; the client uses it in tests and
// the loopback simulator.
func ChannelResponseFrame(st domain.ServiceType, channel uint8, status domain.StatusCode) domain.Frame {
	return domain.NewResponseFrame(st, status, []byte{channel, byte(status)})
}

// ConnectResponse is the decoded body of a CONNECT_RESPONSE.
type ConnectResponse struct {
	Channel        uint8
	Status         domain.StatusCode
	DataEndpoint   domain.Endpoint
	ConnectionType uint8
	Identifier     uint16 // individual address assigned to the tunnel
}

// ParseConnectResponse decodes a CONNECT_RESPONSE body. Error responses stop
// after the status byte, so only Channel and Status are filled in for them.
func ParseConnectResponse(body []byte) (ConnectResponse, error) {
	if len(body) < 2 {
		return ConnectResponse{}, fmt.Errorf("%w: connect response %d bytes", ErrShortBody, len(body))
	}
	status, _ := domain.ParseStatus(body[1])
	resp := ConnectResponse{Channel: body[0], Status: status}
	if !status.OK() {
		return resp, nil
	}

	rest := body[2:]
	ep, err := ParseEndpoint(rest)
	if err != nil {
		return ConnectResponse{}, err
	}
	resp.DataEndpoint = ep
	rest = rest[hpaiLength:]
	if len(rest) < 2 || int(rest[0]) > len(rest) {
		return ConnectResponse{}, fmt.Errorf("%w: connection response data block", ErrShortBody)
	}
	resp.ConnectionType = rest[1]
	if rest[0] >= 4 {
		resp.Identifier = binary.BigEndian.Uint16(rest[2:4])
	}
	return resp, nil
}

// EncodeConnectResponse is the gateway side of ParseConnectResponse.
func EncodeConnectResponse(r ConnectResponse) domain.Frame {
	body := []byte{r.Channel, byte(r.Status)}
	if r.Status.OK() {
		body = AppendEndpoint(body, r.DataEndpoint)
		body = append(body, 0x04, r.ConnectionType)
		body = binary.BigEndian.AppendUint16(body, r.Identifier)
	}
	return domain.NewResponseFrame(domain.ConnectResponse, r.Status, body)
}
