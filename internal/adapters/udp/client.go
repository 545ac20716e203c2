package udp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dkeye/knxip/internal/codec"
	"github.com/dkeye/knxip/internal/core"
	"github.com/dkeye/knxip/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

const defaultReadBuffer = 1024

var ErrClosed = errors.New("udp transport closed")

type Option func(*Client)

// WithReadBuffer sets the datagram buffer size. KNXnet/IP frames are small;
// anything larger than the buffer is truncated and fails to decode.
func WithReadBuffer(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.readBuffer = n
		}
	}
}

// Client is the datagram endpoint towards one KNXnet/IP gateway. It sends
// encoded frames and runs the single receive loop that feeds the router.
type Client struct {
	conn       *net.UDPConn
	router     core.Router
	readBuffer int

	wg conc.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ core.Sender = (*Client)(nil)

// Dial binds localAddr and connects the socket to the gateway, so only the
// gateway's datagrams reach the receive loop.
func Dial(localAddr, gatewayAddr string, router core.Router, opts ...Option) (*Client, error) {
	laddr, err := net.ResolveUDPAddr("udp4", localAddr)
	if err != nil {
		return nil, fmt.Errorf("udp: resolve %s: %w", localAddr, err)
	}
	raddr, err := net.ResolveUDPAddr("udp4", gatewayAddr)
	if err != nil {
		return nil, fmt.Errorf("udp: resolve %s: %w", gatewayAddr, err)
	}
	conn, err := net.DialUDP("udp4", laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("udp: dial %s: %w", gatewayAddr, err)
	}
	c := &Client{
		conn:       conn,
		router:     router,
		readBuffer: defaultReadBuffer,
	}
	for _, opt := range opts {
		opt(c)
	}
	log.Info().Str("module", "adapters.udp").Str("local", conn.LocalAddr().String()).Str("gateway", raddr.String()).Msg("socket ready")
	return c, nil
}

func (c *Client) Send(f domain.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	data, err := codec.Encode(f)
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		return fmt.Errorf("udp: write %s: %w", f.ServiceType(), err)
	}
	log.Debug().Str("module", "adapters.udp").Stringer("service_type", f.ServiceType()).Int("bytes", len(data)).Msg("frame sent")
	return nil
}

// Run reads datagrams until ctx is done or the client is closed, dispatching
// each decoded frame in arrival order. It returns nil on a clean stop.
func (c *Client) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	c.wg.Go(func() { c.readLoop(ctx) })
	if r := c.wg.WaitAndRecover(); r != nil {
		return fmt.Errorf("udp: receive loop: %w", r.AsError())
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	logger := log.With().Str("module", "adapters.udp").Logger()
	buf := make([]byte, c.readBuffer)
	for {
		n, err := c.conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil || c.isClosed() || errors.Is(err, net.ErrClosed) {
				logger.Info().Msg("receive loop stopped")
				return
			}
			// ICMP port unreachable surfaces as a read error on connected
			// sockets; the gateway may simply not be up yet.
			logger.Warn().Err(err).Msg("read error")
			continue
		}
		f, err := codec.Decode(buf[:n])
		if err != nil {
			logger.Warn().Err(err).Int("bytes", n).Msg("dropping undecodable datagram")
			continue
		}
		logger.Debug().Stringer("service_type", f.ServiceType()).Msg("frame received")
		c.router.Dispatch(f)
	}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}
