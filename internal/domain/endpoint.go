package domain

import (
	"errors"
	"fmt"
	"net/netip"
)

var ErrNotIPv4 = errors.New("endpoint must be an IPv4 address")

// Endpoint is a KNXnet/IP host protocol address information (HPAI) value:
// an IPv4 address and UDP port.
type Endpoint struct {
	Addr netip.Addr
	Port uint16
}

// ParseEndpoint accepts "host:port" with an IPv4 host.
func ParseEndpoint(s string) (Endpoint, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", s, err)
	}
	if !ap.Addr().Is4() {
		return Endpoint{}, fmt.Errorf("parse endpoint %q: %w", s, ErrNotIPv4)
	}
	return Endpoint{Addr: ap.Addr(), Port: ap.Port()}, nil
}

// UnspecifiedEndpoint is 0.0.0.0:0, used for NAT-mode requests where the
// gateway answers to the datagram's source address.
func UnspecifiedEndpoint() Endpoint {
	return Endpoint{Addr: netip.IPv4Unspecified()}
}

func (e Endpoint) String() string {
	return netip.AddrPortFrom(e.Addr, e.Port).String()
}
