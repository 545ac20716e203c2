package app

import (
	"context"
	"fmt"

	"github.com/dkeye/knxip/internal/codec"
	"github.com/dkeye/knxip/internal/core"
	"github.com/dkeye/knxip/internal/domain"
)

// ConnectRequest opens a tunnelling connection. Control and Data are the
// client's own endpoints; the unspecified endpoint selects NAT mode.
type ConnectRequest struct {
	Control domain.Endpoint
	Data    domain.Endpoint
}

func (r ConnectRequest) BuildRequest() (domain.Frame, error) {
	return codec.ConnectRequestFrame(r.Control, r.Data), nil
}

// ConnectionStateRequest is the heartbeat for an open channel.
type ConnectionStateRequest struct {
	Channel uint8
	Control domain.Endpoint
}

func (r ConnectionStateRequest) BuildRequest() (domain.Frame, error) {
	return codec.ConnectionStateRequestFrame(r.Channel, r.Control), nil
}

type DisconnectRequest struct {
	Channel uint8
	Control domain.Endpoint
}

func (r DisconnectRequest) BuildRequest() (domain.Frame, error) {
	return codec.DisconnectRequestFrame(r.Channel, r.Control), nil
}

var (
	_ core.FrameFactory = ConnectRequest{}
	_ core.FrameFactory = ConnectionStateRequest{}
	_ core.FrameFactory = DisconnectRequest{}
)

// Connect runs a CONNECT_REQUEST transaction. On success it also returns the
// decoded response with the channel id the gateway assigned.
func Connect(ctx context.Context, deps Deps, req ConnectRequest, opts ...Option) (Result, codec.ConnectResponse, error) {
	res, err := NewTransaction(deps, domain.ConnectResponse, req, opts...).Run(ctx)
	if err != nil || res.Outcome != OutcomeSuccess {
		return res, codec.ConnectResponse{}, err
	}
	resp, err := codec.ParseConnectResponse(res.Frame.Payload())
	if err != nil {
		return res, codec.ConnectResponse{}, fmt.Errorf("decode connect response: %w", err)
	}
	return res, resp, nil
}

func ConnectionState(ctx context.Context, deps Deps, req ConnectionStateRequest, opts ...Option) (Result, error) {
	return NewTransaction(deps, domain.ConnectionStateResponse, req, opts...).Run(ctx)
}

func Disconnect(ctx context.Context, deps Deps, req DisconnectRequest, opts ...Option) (Result, error) {
	return NewTransaction(deps, domain.DisconnectResponse, req, opts...).Run(ctx)
}
