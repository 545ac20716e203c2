package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTypeString(t *testing.T) {
	tests := []struct {
		st   ServiceType
		want string
	}{
		{ConnectRequest, "CONNECT_REQUEST"},
		{ConnectionStateResponse, "CONNECTIONSTATE_RESPONSE"},
		{DisconnectResponse, "DISCONNECT_RESPONSE"},
		{ServiceType(0x0999), "SERVICE_TYPE(0x0999)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.st.String())
		})
	}
	assert.True(t, TunnellingAck.Known())
	assert.False(t, ServiceType(0x0999).Known())
}

func TestParseStatus(t *testing.T) {
	c, err := ParseStatus(0x24)
	require.NoError(t, err)
	assert.Equal(t, StatusConnectionTableFull, c)
	assert.Equal(t, "E_NO_MORE_CONNECTIONS", c.String())
	assert.False(t, c.OK())

	c, err = ParseStatus(0x00)
	require.NoError(t, err)
	assert.True(t, c.OK())

	c, err = ParseStatus(0x7f)
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("ParseStatus(0x7f) err = %v, want ErrUnknownStatus", err)
	}
	assert.Equal(t, StatusCode(0x7f), c)
	assert.Equal(t, "E_UNKNOWN(0x7f)", c.String())
	assert.False(t, c.OK())
}

func TestFrameIsImmutable(t *testing.T) {
	body := []byte{0x01, 0x02, 0x03}
	f := NewFrame(ConnectRequest, body)

	body[0] = 0xff
	assert.Equal(t, byte(0x01), f.Payload()[0], "constructor must copy the payload")

	p := f.Payload()
	p[1] = 0xff
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, f.Payload(), "Payload must return a copy")
	assert.Equal(t, 3, f.PayloadLen())

	_, ok := f.Status()
	assert.False(t, ok)
}

func TestResponseFrameStatus(t *testing.T) {
	f := NewResponseFrame(DisconnectResponse, StatusConnectionID, []byte{0x07, 0x21})
	st, ok := f.Status()
	require.True(t, ok)
	assert.Equal(t, StatusConnectionID, st)
	assert.Equal(t, DisconnectResponse, f.ServiceType())
}

func TestParseEndpoint(t *testing.T) {
	ep, err := ParseEndpoint("192.168.42.10:3671")
	require.NoError(t, err)
	assert.Equal(t, uint16(3671), ep.Port)
	assert.Equal(t, "192.168.42.10:3671", ep.String())

	_, err = ParseEndpoint("[::1]:3671")
	assert.ErrorIs(t, err, ErrNotIPv4)

	_, err = ParseEndpoint("not-an-endpoint")
	assert.Error(t, err)

	assert.Equal(t, "0.0.0.0:0", UnspecifiedEndpoint().String())
}
