package core

//go:generate mockgen -source=transaction_iface.go -destination=mocks/mock_transaction_iface.go -package=mocks

import (
	"time"

	"github.com/dkeye/knxip/internal/domain"
	"github.com/google/uuid"
)

// RouteID identifies one dispatch route. It is opaque to everything but the
// router that issued it.
type RouteID uuid.UUID

func NewRouteID() RouteID { return RouteID(uuid.New()) }

func (id RouteID) String() string { return uuid.UUID(id).String() }

// Callback receives an inbound frame from the dispatch fan-out.
// It runs on the receive path, so it must not block.
type Callback func(domain.Frame)

// Router fans inbound frames out to registered routes.
// An empty interest set registers a catch-all route.
type Router interface {
	Register(types []domain.ServiceType, cb Callback) RouteID
	// Unregister is idempotent: unknown or already removed ids are ignored.
	Unregister(id RouteID)
	Dispatch(f domain.Frame)
}

// Sender hands an outbound frame to the network.
// Implemented by the transport adapter, which owns the socket.
type Sender interface {
	Send(f domain.Frame) error
}

// TimerHandle cancels a scheduled callback. Cancel reports whether it
// stopped the callback; false means it already fired or was cancelled.
type TimerHandle interface {
	Cancel() bool
}

// Scheduler runs fn once after d unless the returned handle is cancelled first.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) TimerHandle
}

// FrameFactory builds the outbound request for one transaction kind.
type FrameFactory interface {
	BuildRequest() (domain.Frame, error)
}

// FrameFactoryFunc adapts a plain function to FrameFactory.
type FrameFactoryFunc func() (domain.Frame, error)

func (f FrameFactoryFunc) BuildRequest() (domain.Frame, error) { return f() }
