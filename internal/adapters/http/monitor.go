package http

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/knxip/internal/app"
	"github.com/dkeye/knxip/internal/codec"
	"github.com/dkeye/knxip/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

const monitorQueue = 64

// BackpressureAction is what the monitor does with a client whose queue is full.
type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	Disconnect
)

// ParseBackpressure accepts "drop", "disconnect" or "" (drop).
func ParseBackpressure(s string) (BackpressureAction, error) {
	switch s {
	case "", "drop":
		return DropFrame, nil
	case "disconnect":
		return Disconnect, nil
	}
	return DropFrame, fmt.Errorf("unknown backpressure action %q", s)
}

// frameView is how the monitor renders a frame.
type frameView struct {
	ServiceType string `json:"service_type"`
	Status      string `json:"status,omitempty"`
	Length      int    `json:"length"`
	Raw         string `json:"raw"`
}

func viewOfFrame(f domain.Frame) frameView {
	v := frameView{ServiceType: f.ServiceType().String(), Length: f.PayloadLen()}
	if st, ok := f.Status(); ok {
		v.Status = st.String()
	}
	if raw, err := codec.Encode(f); err == nil {
		v.Raw = hex.EncodeToString(raw)
	}
	return v
}

// Monitor streams every inbound frame to WebSocket clients through a
// catch-all dispatch route per socket.
type Monitor struct {
	Routes         *app.Registry
	OnBackpressure BackpressureAction
}

func NewMonitor(routes *app.Registry, action BackpressureAction) *Monitor {
	return &Monitor{Routes: routes, OnBackpressure: action}
}

type wsMonitorConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

// TrySend never blocks: the dispatch path must not wait on a slow socket.
func (c *wsMonitorConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsMonitorConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (m *Monitor) Handle(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("ws upgrade")
		return
	}
	conn := &wsMonitorConn{
		conn: ws,
		send: make(chan []byte, monitorQueue),
	}

	id := m.Routes.Register(nil, func(f domain.Frame) {
		b, err := json.Marshal(viewOfFrame(f))
		if err != nil {
			return
		}
		err = conn.TrySend(b)
		if err == nil {
			return
		}
		log.Debug().Err(err).Str("module", "adapters.http").Stringer("service_type", f.ServiceType()).Msg("monitor dropped frame")
		if errors.Is(err, ErrBackpressure) && m.OnBackpressure == Disconnect {
			log.Warn().Str("module", "adapters.http").Msg("monitor client too slow, disconnecting")
			conn.Close()
		}
	})
	log.Info().Str("module", "adapters.http").Str("route", id.String()).Msg("monitor attached")

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		m.writePump(ctx, conn)
	}()
	go func() {
		defer func() {
			cancel()
			m.Routes.Unregister(id)
			conn.Close()
			log.Info().Str("module", "adapters.http").Str("route", id.String()).Msg("monitor detached")
		}()
		m.readPump(ctx, conn)
	}()
}

func (m *Monitor) writePump(ctx context.Context, c *wsMonitorConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.http").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump only watches for the client going away; monitor clients send nothing.
func (m *Monitor) readPump(ctx context.Context, c *wsMonitorConn) {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.SetReadDeadline(time.Now()) })
	defer stop()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
