package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/knxip/internal/app"
	"github.com/dkeye/knxip/internal/codec"
	"github.com/dkeye/knxip/internal/config"
	"github.com/dkeye/knxip/internal/domain"
)

// echoGateway answers requests by dispatching canned responses.
type echoGateway struct {
	routes *app.Registry
	silent bool
}

func (g *echoGateway) Send(f domain.Frame) error {
	if g.silent {
		return nil
	}
	var resp domain.Frame
	switch f.ServiceType() {
	case domain.ConnectRequest:
		resp = codec.EncodeConnectResponse(codec.ConnectResponse{
			Channel:        5,
			DataEndpoint:   domain.UnspecifiedEndpoint(),
			ConnectionType: codec.ConnectionTypeTunnel,
		})
	case domain.ConnectionStateRequest:
		resp = codec.ChannelResponseFrame(domain.ConnectionStateResponse, f.Payload()[0], domain.StatusConnectionID)
	case domain.DisconnectRequest:
		resp = codec.ChannelResponseFrame(domain.DisconnectResponse, f.Payload()[0], domain.StatusNoError)
	default:
		return nil
	}
	time.AfterFunc(time.Millisecond, func() { g.routes.Dispatch(resp) })
	return nil
}

func setupTestRouter(t *testing.T, silent bool) (*gin.Engine, *app.Registry) {
	t.Helper()
	return setupTestRouterWithConfig(t, silent, &config.Config{Mode: "test"})
}

func setupTestRouterWithConfig(t *testing.T, silent bool, cfg *config.Config) (*gin.Engine, *app.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	routes := app.NewRegistry()
	gw := &Gateway{
		Deps: app.Deps{
			Router:    routes,
			Sender:    &echoGateway{routes: routes, silent: silent},
			Scheduler: app.NewTimerScheduler(),
		},
		Routes:  routes,
		Control: domain.UnspecifiedEndpoint(),
		Timeout: 50 * time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRouter(ctx, cfg, gw), routes
}

func doJSON(t *testing.T, r http.Handler, method, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w.Code, body
}

func TestConnectEndpoint(t *testing.T) {
	r, routes := setupTestRouter(t, false)

	code, body := doJSON(t, r, http.MethodPost, "/api/connect")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["outcome"])
	assert.Equal(t, "E_NO_ERROR", body["status"])
	assert.EqualValues(t, 5, body["channel"])
	assert.Equal(t, 0, routes.Len())
}

func TestChannelStateFailure(t *testing.T) {
	r, _ := setupTestRouter(t, false)

	code, body := doJSON(t, r, http.MethodPost, "/api/channels/9/state")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "failure", body["outcome"])
	assert.Equal(t, "E_CONNECTION_ID", body["status"])
	assert.EqualValues(t, 9, body["channel"])
}

func TestDisconnectEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t, false)

	code, body := doJSON(t, r, http.MethodDelete, "/api/channels/9")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["outcome"])
}

func TestTimedOutEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t, true)

	code, body := doJSON(t, r, http.MethodPost, "/api/connect")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "timed_out", body["outcome"])
	assert.NotContains(t, body, "status")
	assert.NotContains(t, body, "channel")
}

func TestInvalidChannel(t *testing.T) {
	r, _ := setupTestRouter(t, false)

	for _, path := range []string{"/api/channels/256/state", "/api/channels/abc/state"} {
		code, body := doJSON(t, r, http.MethodPost, path)
		assert.Equal(t, http.StatusBadRequest, code, path)
		assert.Equal(t, "invalid channel", body["error"])
	}
}

func TestConnectRateLimited(t *testing.T) {
	r, _ := setupTestRouterWithConfig(t, false, &config.Config{
		Mode:          "test",
		ConnectLimit:  1,
		ConnectWindow: time.Minute,
	})

	code, _ := doJSON(t, r, http.MethodPost, "/api/connect")
	assert.Equal(t, http.StatusOK, code)

	code, body := doJSON(t, r, http.MethodPost, "/api/connect")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "too many requests", body["error"])

	// Other endpoints are not limited.
	code, _ = doJSON(t, r, http.MethodDelete, "/api/channels/5")
	assert.Equal(t, http.StatusOK, code)
}

func TestParseBackpressure(t *testing.T) {
	tests := []struct {
		in      string
		want    BackpressureAction
		wantErr bool
	}{
		{"", DropFrame, false},
		{"drop", DropFrame, false},
		{"disconnect", Disconnect, false},
		{"kick", DropFrame, true},
	}
	for _, tt := range tests {
		got, err := ParseBackpressure(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackpressure(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBackpressure(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoutesEndpoint(t *testing.T) {
	r, routes := setupTestRouter(t, false)
	routes.Register([]domain.ServiceType{domain.TunnellingAck}, func(domain.Frame) {})

	code, body := doJSON(t, r, http.MethodGet, "/api/routes")
	assert.Equal(t, http.StatusOK, code)
	list, ok := body["routes"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, []any{"TUNNELLING_ACK"}, list[0].(map[string]any)["types"])
}

func TestMonitorStreamsFrames(t *testing.T) {
	r, routes := setupTestRouter(t, false)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/monitor"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.Eventually(t, func() bool { return routes.Len() == 1 }, time.Second, 5*time.Millisecond)
	routes.Dispatch(codec.ChannelResponseFrame(domain.DisconnectResponse, 2, domain.StatusNoError))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var v frameView
	require.NoError(t, json.Unmarshal(msg, &v))
	assert.Equal(t, "DISCONNECT_RESPONSE", v.ServiceType)
	assert.Equal(t, "E_NO_ERROR", v.Status)
	assert.Equal(t, 2, v.Length)
	assert.Equal(t, "0610020a00080200", v.Raw)

	ws.Close()
	require.Eventually(t, func() bool { return routes.Len() == 0 }, 2*time.Second, 5*time.Millisecond,
		"monitor route must be removed when the socket closes")
}
