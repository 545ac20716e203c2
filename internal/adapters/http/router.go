package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dkeye/knxip/internal/app"
	"github.com/dkeye/knxip/internal/config"
	"github.com/dkeye/knxip/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Gateway bundles what the admin handlers need to run transactions.
type Gateway struct {
	Deps    app.Deps
	Routes  *app.Registry
	Control domain.Endpoint
	Timeout time.Duration

	// KNXnet/IP responses are not correlated, so admin-triggered
	// transactions run one at a time.
	mu sync.Mutex
}

type resultView struct {
	Outcome string `json:"outcome"`
	Status  string `json:"status,omitempty"`
	Channel *uint8 `json:"channel,omitempty"`
}

func viewOf(res app.Result) resultView {
	v := resultView{Outcome: res.Outcome.String()}
	if res.Outcome == app.OutcomeSuccess || res.Outcome == app.OutcomeFailure {
		v.Status = res.Status.String()
	}
	return v
}

func SetupRouter(ctx context.Context, cfg *config.Config, gw *Gateway) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.http").Str("control", gw.Control.String()).Msg("router setup")

	api := r.Group("/api")

	api.GET("/routes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"routes": gw.Routes.Snapshot()})
	})

	limiter := NewRateLimiter(cfg.ConnectLimit, cfg.ConnectWindow)
	api.POST("/connect", limiter.Middleware(), func(c *gin.Context) {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		req := app.ConnectRequest{Control: gw.Control, Data: gw.Control}
		res, resp, err := app.Connect(c.Request.Context(), gw.Deps, req, app.WithTimeout(gw.Timeout))
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("connect")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		v := viewOf(res)
		if res.Outcome == app.OutcomeSuccess {
			v.Channel = &resp.Channel
		}
		c.JSON(http.StatusOK, v)
	})

	api.POST("/channels/:channel/state", func(c *gin.Context) {
		channel, ok := channelParam(c)
		if !ok {
			return
		}
		gw.mu.Lock()
		defer gw.mu.Unlock()
		req := app.ConnectionStateRequest{Channel: channel, Control: gw.Control}
		res, err := app.ConnectionState(c.Request.Context(), gw.Deps, req, app.WithTimeout(gw.Timeout))
		respond(c, res, err, channel)
	})

	api.DELETE("/channels/:channel", func(c *gin.Context) {
		channel, ok := channelParam(c)
		if !ok {
			return
		}
		gw.mu.Lock()
		defer gw.mu.Unlock()
		req := app.DisconnectRequest{Channel: channel, Control: gw.Control}
		res, err := app.Disconnect(c.Request.Context(), gw.Deps, req, app.WithTimeout(gw.Timeout))
		respond(c, res, err, channel)
	})

	action, err := ParseBackpressure(cfg.MonitorBackpressure)
	if err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("falling back to drop")
	}
	mon := NewMonitor(gw.Routes, action)
	api.GET("/ws/monitor", func(c *gin.Context) {
		mon.Handle(ctx, c)
	})

	return r
}

func channelParam(c *gin.Context) (uint8, bool) {
	n, err := strconv.ParseUint(c.Param("channel"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return 0, false
	}
	return uint8(n), true
}

func respond(c *gin.Context, res app.Result, err error, channel uint8) {
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Uint8("channel", channel).Msg("transaction")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	v := viewOf(res)
	v.Channel = &channel
	c.JSON(http.StatusOK, v)
}
